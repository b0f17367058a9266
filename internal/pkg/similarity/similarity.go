// Package similarity 提供文本归一化、指纹与相似度计算，均为无副作用的纯函数
package similarity

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// SimilarThreshold 相似阈值，达到即视为近似重复
	SimilarThreshold = 0.75
	// ExactThreshold 精确阈值，达到即视为完全重复
	ExactThreshold = 0.95

	fingerprintSize      = 20
	fingerprintMinLen    = 3
	fingerprintDelimiter = "|"

	jaccardWeight     = 0.6
	levenshteinWeight = 0.4
)

// Normalize NFC 组合后小写化、去除标点（保留越南语声调字母）、压缩空白
// 预组合与分解形式的同一段文本得到相同结果
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(norm.NFC.String(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Fingerprint 取出现频率最高的 20 个有效词（长度 > 2），按频率降序拼接
// 频率相同时保持首次出现的顺序
func Fingerprint(text string) string {
	tokens := strings.Fields(Normalize(text))

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len([]rune(tok)) < fingerprintMinLen {
			continue
		}
		if _, ok := counts[tok]; !ok {
			order = append(order, tok)
		}
		counts[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > fingerprintSize {
		order = order[:fingerprintSize]
	}
	return strings.Join(order, fingerprintDelimiter)
}

// Similarity 返回 [0,1] 的综合相似度：0.6 * Jaccard + 0.4 * 归一化编辑距离
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}

	jac := Jaccard(na, nb)

	ra, rb := []rune(na), []rune(nb)
	maxLen := max(len(ra), len(rb))
	lev := 1.0
	if maxLen > 0 {
		lev = 1 - float64(levenshteinRunes(ra, rb))/float64(maxLen)
	}

	score := jaccardWeight*jac + levenshteinWeight*lev
	return min(max(score, 0), 1)
}

// Jaccard 计算两个文本的词集合 Jaccard 系数
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// Levenshtein 经典动态规划编辑距离，按 rune 计算
func Levenshtein(a, b string) int {
	return levenshteinRunes([]rune(a), []rune(b))
}

func levenshteinRunes(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
