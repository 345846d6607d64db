package llm

import "fmt"

const (
	// SummaryPromptTemplate asks for a ~300-character Japanese summary
	// structured as background/method/result/conclusion.
	SummaryPromptTemplate = "以下の英語の論文情報を、日本語で約300字に要約してください。\n" +
		"構成は『背景/方法/結果/結論』の順にし、冗長な前置きは不要です。\n\n" +
		"Title: %s\n" +
		"Abstract: %s"

	// ShortSummaryPromptTemplate asks for a ~150-character self-contained
	// Japanese summary.
	ShortSummaryPromptTemplate = "以下の英語の論文情報を、日本語で約150字の完結した要約にしてください。" +
		"冗長な前置きは不要です。\n\n" +
		"Title: %s\n" +
		"Abstract: %s"

	// NarrativePromptTemplate asks for a minimal revision of a disease
	// review section given new study summaries. The two-sentence limit is
	// advisory only; nothing verifies the model complied.
	NarrativePromptTemplate = "以下は疾患レビューの本文です。新しい研究要約を反映して、" +
		"本文を最小限だけ更新してください。更新は最大2文まで。" +
		"既存の内容を大きく書き換えないでください。\n\n" +
		"現在の本文:\n%s\n\n" +
		"新しい要約:\n%s\n\n" +
		"更新後の本文:"
)

// BuildSummaryPrompt builds the long-summary prompt for an article.
func BuildSummaryPrompt(title, abstract string) string {
	return fmt.Sprintf(SummaryPromptTemplate, title, abstract)
}

// BuildShortSummaryPrompt builds the short-summary prompt for an article.
func BuildShortSummaryPrompt(title, abstract string) string {
	return fmt.Sprintf(ShortSummaryPromptTemplate, title, abstract)
}

// BuildNarrativePrompt builds the narrative-revision prompt from the current
// section text and the bullet list of new summaries.
func BuildNarrativePrompt(current, newSummaries string) string {
	return fmt.Sprintf(NarrativePromptTemplate, current, newSummaries)
}
