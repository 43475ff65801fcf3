package subscription

const (
	messageSuccess          = "푸시 알림 구독에 성공했습니다! 이제 식재료 만료 알림을 받아보실 수 있습니다."
	messagePermissionDenied = "알림 권한이 거부되었습니다. 브라우저 설정에서 알림 권한을 허용해 주세요."
	messageFailed           = "푸시 알림 구독에 실패했습니다. 다시 시도해 주세요."
)

// Message maps the outcome of Subscribe to the text shown to the user. An
// existing subscription counts as success.
func Message(err error) string {
	switch CodeOf(err) {
	case "", CodeAlreadySubscribed:
		return messageSuccess
	case CodePermissionDenied, CodeAlreadyDenied:
		return messagePermissionDenied
	default:
		return messageFailed
	}
}
