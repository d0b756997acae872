package xai

// Word lists are closed sets; tokens are compared after lowercasing and
// canonicalization.

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

func (s wordSet) minus(others ...wordSet) wordSet {
	out := make(wordSet, len(s))
	for w := range s {
		drop := false
		for _, o := range others {
			if o.has(w) {
				drop = true
				break
			}
		}
		if !drop {
			out[w] = struct{}{}
		}
	}
	return out
}

var stopwords = newWordSet(
	// filler and connectives
	"정말", "너무", "진짜", "그냥", "조금", "약간",
	"그리고", "그래서", "하지만", "근데", "이런", "저런",
	"이제", "다시", "오늘", "내일", "어제",
	"아주", "계속", "많이", "거의", "살짝", "아직",

	// purchase and delivery
	"사용", "제품", "구매", "배송", "포장", "가격",
	"판매", "주문", "재구매", "서비스", "가성비", "세일", "할인",

	// time
	"처음", "이번", "예전", "요즘", "항상", "매번", "며칠", "하루",
	"한번", "전에", "요즘에",

	// sentence endings and common verbs
	"좋아요", "좋았어요", "좋네요", "좋습니다", "좋았습니",
	"좋고", "좋아서", "좋은", "좋다고",
	"느낌이", "느낌",
	"있어요", "있습니다", "있어", "있는",
	"됩니다", "됐어요", "됐습니다",
	"했어요", "하네요", "합니다", "해요",
	"사용중", "사용해요", "사용하고", "사용중입니다",
	"쓰고있어요", "쓰고있습니다", "쓰고", "쓰면", "써보고", "쓰기",
	"발라요", "발랐어요", "바르면", "바르고", "바를때",
	"발라줬어요", "발라줍니다", "발라주고",

	// generic skin and product words
	"피부", "피부가", "피부에", "피부는", "피부를",
	"얼굴", "얼굴이",
	"크림", "에센스", "토너", "로션", "스킨",
	"세럼", "앰플", "마스크", "기초", "화장품", "수분크림",
	"제품이", "제품은", "제품이라", "제품이에요", "제품입니다",
	"상품", "상품이", "비건",

	// review boilerplate
	"꾸준히", "만족합니다", "만족해요", "만족스럽고", "만족스러워요",
	"효과가", "효과는", "효과도", "효과를",
	"도움이", "도움", "감사합니다",

	"빠른", "빠르게", "빨리",
)

// directCanon maps inflected forms that the prefix rules cannot reach.
var directCanon = map[string]string{
	"가렵다":   "가려움",
	"가렵고":   "가려움",
	"따갑다":   "따가움",
	"따가워요":  "따가움",
	"예민한":   "예민",
	"끈적임":   "끈적",
	"가벼운":   "가볍",
	"가볍게":   "가볍",
	"무거운":   "무겁",
	"비타민씨":  "비타민c",
	"진정이":   "진정",
	"진정효과":  "진정",
	"보습력":   "보습",
	"보습감":   "보습",
	"수분감":   "수분",
	"쿨링감":   "쿨링",
	"유분감":   "유분",
	"번들거려요": "번들거림",
}

// stemPrefixes are tried in order; the first matching prefix wins.
var stemPrefixes = []string{"촉촉", "산뜻", "가볍", "무겁", "끈적", "보송", "쫀쫀"}

var effectWords = newWordSet(
	"보습", "수분",
	"진정", "쿨링", "시원",
	"트러블", "여드름",
	"민감", "민감성", "예민", "자극", "저자극",
	"건조", "속건조", "각질",
	"유분", "번들거림",
	"모공", "피지",
	"미백", "톤업", "기미", "잡티",
	"탄력", "주름",
	"지성", "건성", "복합성", "수부지", "중성",
)

// coreEffectWords is the short list preferred for slot 3 when no ingredient
// is mentioned.
var coreEffectWords = newWordSet("보습", "수분", "진정", "쿨링", "미백", "톤업", "탄력", "저자극")

var feelWords = newWordSet(
	"촉촉", "쫀쫀", "산뜻", "끈적", "보송", "가볍", "무겁", "리치", "시원", "쿨링",
)

var ingredientWords = newWordSet(
	"나이아신아마이드", "비타민c", "트라넥삼산",
	"레티놀", "아데노신",
	"히알루론산", "판테놀", "세라마이드", "콜레스테롤", "스쿠알란",
	"병풀", "시카", "센텔라", "마데카소사이드", "알란토인", "알로에",
	"녹차", "프로폴리스",
	"살리실산", "bha", "aha",
)

var problemWords = newWordSet(
	"여드름", "트러블",
	"지성", "건성", "복합성", "수부지", "악건성",
	"민감", "민감성", "예민",
	"유분", "번들거림",
	"건조", "속건조", "각질",
	"당김", "속당김",
	"자극",
	"가려움", "따가움",
	"홍조", "붉은기",
	"모공", "피지",
	"기미", "잡티", "색소침착",
	"주름", "팔자주름",
)

// Improvement tails, canonicalized to one of 완화, 개선, 케어, 진정.
const (
	tailRelief  = "완화"
	tailImprove = "개선"
	tailCare    = "케어"
	tailCalm    = "진정"
)

var tailCanon = map[string]string{
	"완화":     tailRelief,
	"완화되는":   tailRelief,
	"완화된":    tailRelief,
	"개선":     tailImprove,
	"개선되는":   tailImprove,
	"개선되고":   tailImprove,
	"케어":     tailCare,
	"진정":     tailCalm,
	"진정되는":   tailCalm,
	"진정되고":   tailCalm,
	"줄어들고":   tailImprove,
	"줄어든":    tailImprove,
	"줄어들었어요": tailImprove,
	"줄었어요":   tailImprove,
	"없어졌어요":  tailRelief,
	"사라졌어요":  tailRelief,
	"옅어지는":   tailRelief,
	"옅어졌어요":  tailRelief,
	"좋아졌어요":  tailImprove,
	"좋아졌다":   tailImprove,
	"나아졌어요":  tailImprove,
	"없어요":    tailRelief,
	"없고":     tailRelief,
	"없어서":    tailRelief,
}

// tailAllows restricts which problems a tail can be paired with. 완화 and 개선
// accept every problem.
var tailAllows = map[string]wordSet{
	tailRelief:  problemWords,
	tailImprove: problemWords,
	tailCare:    newWordSet("여드름", "트러블", "모공", "피지", "기미", "잡티", "각질"),
	tailCalm:    newWordSet("트러블", "여드름", "민감", "민감성", "예민", "자극", "홍조", "붉은기"),
}

// problemLabels overrides the synthesized "{problem} {tail}" label.
var problemLabels = map[string]string{
	"건조":   "건조 개선",
	"속건조":  "속건조 개선",
	"당김":   "당김 완화",
	"속당김":  "속당김 완화",
	"악건성":  "악건성 보습",
	"지성":   "피지 케어",
	"유분":   "유분 조절",
	"번들거림": "번들거림 개선",
	"수부지":  "수부지 수분 충전",
	"가려움":  "가려움 완화",
	"따가움":  "따가움 완화",
	"홍조":   "홍조 진정",
	"붉은기":  "붉은기 진정",
	"색소침착": "색소침착 개선",
	"팔자주름": "팔자주름 개선",
}

// closedWords are never treated as verb forms.
var closedWords = newWordSet()

func init() {
	for _, s := range []wordSet{problemWords, effectWords, ingredientWords, feelWords} {
		for w := range s {
			closedWords[w] = struct{}{}
		}
	}
}
