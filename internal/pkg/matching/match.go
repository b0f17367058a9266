package matching

import "math"

// Reason 匹配原因
type Reason string

const (
	ReasonExact     Reason = "exact"
	ReasonPreferred Reason = "preferred"
	ReasonPartial   Reason = "partial"
	ReasonGeneral   Reason = "general"
)

const (
	ExcludedScore   = -100
	preferredWeight = 50
	matchedWeight   = 30
	exactBonus      = 100
	relevanceWeight = 20
)

// Result 内容与频道的匹配结果
type Result struct {
	Score       int      `json:"score"`
	MatchedTags []string `json:"matchedTags"`
	Reason      Reason   `json:"matchReason"`
}

// CalculateMatchScore 按标签计算内容与频道的匹配得分
// 命中排除标签直接返回 -100，覆盖其他所有规则
func CalculateMatchScore(contentTags, channelTags, preferredTags, excludedTags []string) Result {
	excluded := toSet(excludedTags)
	for _, tag := range contentTags {
		if _, ok := excluded[tag]; ok {
			return Result{Score: ExcludedScore, MatchedTags: []string{}, Reason: ReasonGeneral}
		}
	}

	matched := intersect(contentTags, channelTags)
	preferredMatched := intersect(contentTags, preferredTags)

	if len(matched) == 0 && len(preferredMatched) == 0 {
		return Result{Score: 0, MatchedTags: []string{}, Reason: ReasonGeneral}
	}

	var score float64
	reason := ReasonGeneral

	if len(preferredMatched) > 0 {
		score += float64(preferredWeight * len(preferredMatched))
		reason = ReasonPreferred
	}

	score += float64(matchedWeight * len(matched))

	if len(contentTags) > 0 && sameSet(matched, contentTags) {
		score += exactBonus
		reason = ReasonExact
	} else if len(matched) > 0 && reason != ReasonPreferred {
		reason = ReasonPartial
	}

	if len(channelTags) > 0 {
		score += relevanceWeight * (float64(len(matched)) / float64(len(channelTags)))
	}

	return Result{
		Score:       int(math.Round(score)),
		MatchedTags: matched,
		Reason:      reason,
	}
}

// intersect 保持 a 中的顺序并去重
func intersect(a, b []string) []string {
	set := toSet(b)
	out := make([]string, 0)
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		if _, ok := set[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func sameSet(a, b []string) bool {
	sa, sb := toSet(a), toSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for k := range sa {
		if _, ok := sb[k]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
