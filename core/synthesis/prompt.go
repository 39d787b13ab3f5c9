// ABOUTME: Instruction document sent to the generative model each run
// ABOUTME: Fixed output rules plus the aggregate feed text appended last as grounding data

package synthesis

import (
	"strings"
	"text/template"
	"time"

	"market-radar/core/domain"
)

// Classes the fragment must use; ValidateFragment checks the same names
const (
	ClassSectionTitle = "section-title"
	ClassStockCard    = "stock-card"
	ClassTicker       = "ticker"
	ClassQuote        = "quote"
	ClassQuoteEN      = "quote-en"
	ClassQuoteZH      = "quote-zh"
	ClassTrackCard    = "track-card"
)

const promptTemplate = `你现在是一个资深美股机构级分析助手。今天是 {{.Date}}。请分析下方 Reddit 讨论数据，生成一份中文网页简报。

市场情绪背景（仅供参考，不要在正文中重复数值）：CNN 恐惧贪婪指数 {{.Score}}（{{.RatingLabel}}）。

分析要求：
1. 【全市场扫描】列出讨论热度最高的前 20 只美股个股（Ticker），简述核心看点。
2. 【AI 产业链深度穿透】按以下清单分析科技股异动：模型、算力（技术路线、台积电产能分配）、光通信（CPO/NPO）、存储、电力（数据中心用电、燃气轮机、公用事业）、PCB、云与应用。
3. 【风险评估】提炼散户当前最担心的 3 个宏观或技术性风险。

输出规则（必须严格遵守）：
- 忽略与行情无关的噪音，例如券商 App 宕机、下单失败、客服投诉。
- 严禁编造引用：所有引用必须逐字来自下方数据，数据中没有的内容不得出现在引用中。
- 不要把 SPY、QQQ、VOO、IWM、DIA、VTI 等宽基指数基金或 ETF 当作个股列出。
- 每条英文引用都必须配中文翻译。
- 不要使用任何 Markdown 语法：不要 ** 加粗，不要代码块标记。
- Ticker 标签必须单独放在一个块级元素中，不能与引用写在同一行。
- 只输出 HTML 片段，不要包含 html、head、body、script、style 标签。
- 必须使用以下标签和 class：
  - 板块标题：<h2 class="{{.Classes.SectionTitle}}">标题</h2>
  - 个股卡片：<div class="{{.Classes.StockCard}}"><div class="{{.Classes.Ticker}}">NVDA</div>……</div>
  - 引用：<blockquote class="{{.Classes.Quote}}"><p class="{{.Classes.QuoteEN}}">English original</p><p class="{{.Classes.QuoteZH}}">中文翻译</p></blockquote>
  - 产业赛道卡片：<div class="{{.Classes.TrackCard}}">……</div>

原始讨论数据：
{{.Text}}`

var promptTmpl = template.Must(template.New("prompt").Option("missingkey=error").Parse(promptTemplate))

type promptClasses struct {
	SectionTitle, StockCard, Ticker, Quote, QuoteEN, QuoteZH, TrackCard string
}

type promptData struct {
	Date        string
	Score       int
	RatingLabel string
	Classes     promptClasses
	Text        string
}

// BuildPrompt renders the instruction document. The aggregate text is
// always the last thing in the prompt, even when it is empty.
func BuildPrompt(date time.Time, reading domain.SentimentReading, text string) (string, error) {
	data := promptData{
		Date:        date.Format("2006-01-02"),
		Score:       reading.Score,
		RatingLabel: reading.Rating.Label(),
		Classes: promptClasses{
			SectionTitle: ClassSectionTitle,
			StockCard:    ClassStockCard,
			Ticker:       ClassTicker,
			Quote:        ClassQuote,
			QuoteEN:      ClassQuoteEN,
			QuoteZH:      ClassQuoteZH,
			TrackCard:    ClassTrackCard,
		},
		Text: text,
	}

	var sb strings.Builder
	if err := promptTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
