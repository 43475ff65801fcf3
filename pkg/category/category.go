package category

import "strings"

type Category string

const (
	// All is a filter-only value and is never stored.
	All       Category = "전체"
	Dairy     Category = "유제품"
	Vegetable Category = "채소"
	Fruit     Category = "과일"
	Bread     Category = "빵"
	Meat      Category = "육류"
	Animal    Category = "동물성"
	Fish      Category = "생선"
	Snack     Category = "과자"
	Other     Category = "기타"
)

// Stored lists every category that may be persisted on an ingredient.
var Stored = []Category{Dairy, Vegetable, Fruit, Bread, Meat, Animal, Fish, Snack, Other}

// Rule maps a category to the keywords that select it. A keyword matches when
// it is a substring of the ingredient name.
type Rule struct {
	Category Category
	Keywords []string
}

// DefaultRules is evaluated top to bottom; the first rule with a matching
// keyword decides the category.
var DefaultRules = []Rule{
	{Dairy, []string{"우유", "치즈", "요거트", "요구르트", "버터", "생크림"}},
	{Vegetable, []string{"양파", "대파", "쪽파", "마늘", "배추", "당근", "감자", "고구마", "오이", "호박", "상추", "깻잎",
		"시금치", "버섯", "고추", "콩나물", "숙주", "브로콜리", "토마토", "가지", "파프리카", "부추"}},
	{Fruit, []string{"사과", "바나나", "딸기", "포도", "귤", "오렌지", "수박", "참외", "복숭아", "키위", "레몬",
		"블루베리", "망고", "자두", "체리", "파인애플"}},
	{Bread, []string{"빵", "베이글", "바게트", "케이크", "도넛", "크루아상", "머핀", "와플"}},
	{Meat, []string{"고기", "삼겹살", "목살", "갈비", "햄", "소시지", "베이컨", "닭", "스테이크"}},
	{Animal, []string{"계란", "달걀", "메추리알"}},
	{Fish, []string{"생선", "고등어", "연어", "참치", "오징어", "새우", "조개", "멸치", "갈치", "명태", "동태",
		"꽁치", "삼치", "어묵", "문어", "낙지", "전복"}},
	{Snack, []string{"과자", "초콜릿", "쿠키", "젤리", "사탕", "아이스크림", "비스킷"}},
}

// DefaultAliases rewrites deprecated stored categories to their current name.
var DefaultAliases = map[Category]Category{
	"고기": Meat,
}

type Inferencer struct {
	rules    []Rule
	aliases  map[Category]Category
	override Category
}

// NewInferencer builds an inferencer over the given ordered rules. Names that
// match the override category's keywords win over any stored category during
// Normalize.
func NewInferencer(rules []Rule, aliases map[Category]Category, override Category) *Inferencer {
	return &Inferencer{rules: rules, aliases: aliases, override: override}
}

var Default = NewInferencer(DefaultRules, DefaultAliases, Animal)

func (in *Inferencer) Infer(name string) Category {
	for _, r := range in.rules {
		if matches(r, name) {
			return r.Category
		}
	}
	return Other
}

// Resolve returns the explicit category when one is supplied and inferred
// otherwise. All and unknown values count as absent.
func (in *Inferencer) Resolve(name string, explicit Category) Category {
	if IsStored(explicit) {
		return explicit
	}
	return in.Infer(name)
}

// Normalize projects a stored category onto the current taxonomy at read time.
// It is never written back.
func (in *Inferencer) Normalize(name string, stored Category) Category {
	for _, r := range in.rules {
		if r.Category == in.override && matches(r, name) {
			return in.override
		}
	}
	if target, ok := in.aliases[stored]; ok {
		return target
	}
	return in.Resolve(name, stored)
}

func matches(r Rule, name string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func IsStored(c Category) bool {
	for _, s := range Stored {
		if s == c {
			return true
		}
	}
	return false
}

// IsFilter reports whether c may be used to filter a listing.
func IsFilter(c Category) bool {
	return c == All || IsStored(c)
}

func Infer(name string) Category {
	return Default.Infer(name)
}

func Resolve(name string, explicit Category) Category {
	return Default.Resolve(name, explicit)
}

func Normalize(name string, stored Category) Category {
	return Default.Normalize(name, stored)
}
