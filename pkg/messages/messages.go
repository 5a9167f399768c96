// Package messages holds the user-visible strings of the demo in each
// supported language.
package messages

import "strings"

// DefaultLanguage is used when no or an unknown language is configured.
const DefaultLanguage = "en"

// Catalog is the set of strings for one language. Fields ending in Fmt are
// fmt format strings.
type Catalog struct {
	// Status reporter
	StatusNotLoaded string
	StatusReadyFmt  string // model name

	// Reranker output
	EnterQuery        string
	QueryLineFmt      string // query
	NoCandidates      string
	NoValidCandidates string
	DemoNotice        string
	TopKHeaderFmt     string // k
	ResultLineFmt     string // rank, score, text
	RealModelNoteFmt  string // model name

	// Web UI
	PageTitleFmt        string // model name
	HeadingFmt          string // model name
	DescriptionFmt      string // model name
	LoadButton          string
	StatusLabel         string
	RerankTab           string
	RerankInstructions  string
	QueryLabel          string
	QueryPlaceholder    string
	PassagesLabel       string
	PassagesPlaceholder string
	TopKLabel           string
	OutputLabel         string
	RunButton           string
	FooterFmt           string // model name
}

var catalogs = map[string]Catalog{
	"en": {
		StatusNotLoaded: "Not loaded",
		StatusReadyFmt:  "Model status: %s ready (demo mode, real weights not loaded)",

		EnterQuery:        "Please enter a query.",
		QueryLineFmt:      "Query: %s",
		NoCandidates:      "No candidates provided. Enter one candidate document per line and run reranking again.",
		NoValidCandidates: "No valid candidates parsed. Enter one candidate document per line.",
		DemoNotice:        "[Demo] The query and candidates were reranked (no real model loaded).",
		TopKHeaderFmt:     "Top-%d results (placeholder scores):",
		ResultLineFmt:     "  %d. Score: %.4f — %s",
		RealModelNoteFmt:  "Once the real %s model is loaded, actual relevance scores and ranking will appear here.",

		PageTitleFmt:        "%s WebUI",
		HeadingFmt:          "%s Reranking · WebUI Demo",
		DescriptionFmt:      "This page walks through the typical workflow of the %s cross-encoder reranker: model loading status, query–document relevance scoring and the ranked results.",
		LoadButton:          "Load model (demo)",
		StatusLabel:         "Model status",
		RerankTab:           "Rerank",
		RerankInstructions:  "Enter a query and some candidate documents below (one per line); the model outputs relevance scores and the ranking.",
		QueryLabel:          "Query",
		QueryPlaceholder:    "e.g. What is a giant panda?",
		PassagesLabel:       "Candidate documents (one per line)",
		PassagesPlaceholder: "Document 1\nDocument 2\n...",
		TopKLabel:           "Show Top-K",
		OutputLabel:         "Reranking result",
		RunButton:           "Run reranking (demo)",
		FooterFmt:           "Note: this is a lightweight demo page; the %s model weights are not downloaded or loaded.",
	},
	"zh": {
		StatusNotLoaded: "尚未加载",
		StatusReadyFmt:  "模型状态：%s 已就绪（演示模式，未加载真实权重）",

		EnterQuery:        "请输入查询文本。",
		QueryLineFmt:      "查询：%s",
		NoCandidates:      "未输入候选文档，请每行填写一条候选文档后再执行重排序。",
		NoValidCandidates: "未解析到有效候选文档，请每行填写一条。",
		DemoNotice:        "[演示] 已对查询与候选文档进行重排序（未加载真实模型）。",
		TopKHeaderFmt:     "Top-%d 结果示例（分数为占位）：",
		ResultLineFmt:     "  %d. 分数: %.4f — %s",
		RealModelNoteFmt:  "加载真实 %s 后，将在此显示实际相关性分数与排序。",

		PageTitleFmt:        "%s WebUI",
		HeadingFmt:          "%s 重排序 · WebUI 演示",
		DescriptionFmt:      "本界面以交互方式展示 %s 跨编码器重排序模型的典型使用流程，包括模型加载状态与「查询—文档」相关性打分与排序结果展示。",
		LoadButton:          "加载模型（演示）",
		StatusLabel:         "模型状态",
		RerankTab:           "重排序",
		RerankInstructions:  "在下方输入查询与若干候选文档（每行一条），模型将输出相关性分数及排序结果。",
		QueryLabel:          "查询",
		QueryPlaceholder:    "例如：什么是大熊猫？",
		PassagesLabel:       "候选文档（每行一条）",
		PassagesPlaceholder: "文档1\n文档2\n...",
		TopKLabel:           "展示 Top-K 条",
		OutputLabel:         "重排序结果",
		RunButton:           "执行重排序（演示）",
		FooterFmt:           "说明：当前为轻量级演示界面，未实际下载与加载 %s 模型参数。",
	},
}

// Normalize maps lang to the key of a catalog. Region suffixes are
// ignored, so "zh-CN" becomes "zh". Unknown languages become DefaultLanguage.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := catalogs[lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// For returns the catalog for lang, see Normalize.
func For(lang string) Catalog {
	return catalogs[Normalize(lang)]
}
