package notification

import (
	"Fridge-Keeper/domain"
	"fmt"
)

type Kind int

const (
	KindImmediate Kind = iota
	KindBatch
	KindWelcome
)

const (
	titleImmediate = "새 재료 알림! 🥬"
	titleBatch     = "식재료 유통기한 확인! 🚨"
	titleWelcome   = "알림 설정 완료! 🔔"

	bodySingle  = "%s의 유통기한이 임박했습니다."
	bodyMany    = "%s 외 %d개의 재료가 곧 만료됩니다."
	bodyWelcome = "유통기한이 임박한 식재료가 있으면 알려드릴게요."

	landingURL = "/"
)

// BuildPayload names the first item and counts the rest. names must be ordered
// soonest-expiring first.
func BuildPayload(kind Kind, names []string) domain.NotificationPayload {
	p := domain.NotificationPayload{URL: landingURL}

	switch kind {
	case KindWelcome:
		p.Title, p.Body = titleWelcome, bodyWelcome
		return p
	case KindBatch:
		p.Title = titleBatch
	default:
		p.Title = titleImmediate
	}

	switch len(names) {
	case 0:
	case 1:
		p.Body = fmt.Sprintf(bodySingle, names[0])
	default:
		p.Body = fmt.Sprintf(bodyMany, names[0], len(names)-1)
	}
	return p
}
