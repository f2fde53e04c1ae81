package search

import (
	"regexp"
	"strings"
)

// 句子终结符：一个或多个连续的 . ! ?
var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// ChunkText 将长文本按句子边界切分为不超过 maxChunkSize 个字符的分块。
// 切分规则：
//   - 以 . ! ? 作为句子终结符，空白句子丢弃；
//   - 连续句子累积进缓冲区，若追加下一句会超出 maxChunkSize 且缓冲区
//     非空，则先输出缓冲区再开启新块；
//   - 单个超长句子不截断，独占一块（截断会破坏句义，影响向量质量）。
//
// 返回的分块均非空，且保持原文句子顺序。相同输入必得相同输出。
func ChunkText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}

	sentences := sentenceSplitter.Split(text, -1)
	var chunks []string
	var current strings.Builder

	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+1+len(sentence) > maxChunkSize {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
