package ai

// Article generation prompts
const (
	ArticleSystemPrompt = `You are an SEO blogger writing long-form articles for a technology blog aimed at everyday computer users.`

	ArticleUserPrompt = `Write an **SEO-optimized** blog post titled **'%s'** with proper **HTML formatting**:

- **Use <h2> for the main title**
- **Use <h3> for subsections**
- **Include bullet points (<ul><li>) and numbered lists (<ol><li>)**
- **Wrap text paragraphs in <p>**
- **Include a conclusion with a summary**
- **Make sure it looks well-structured and clean**

Output must be **pure HTML**, ready for the CMS.
IMPORTANT: DO NOT wrap the content in triple backticks.`
)

// Title enrichment prompts
const (
	TitleVariationSystemPrompt = `You are an SEO content strategist.`

	TitleVariationUserPrompt = `Generate %d SEO-friendly blog titles about '%s'.
- Titles should be **engaging**, **click-worthy**, and **informative**.
- Use power words like 'Ultimate Guide', 'Top 10', 'Everything You Need to Know'.
- Titles must be under **70 characters** for SEO.
- Avoid duplicate phrasing.

Respond in JSON format:
{
  "titles": ["<title1>", "<title2>"]
}`

	TitleRankingUserPrompt = `From the following candidate blog titles, pick the single one most likely to earn clicks and shares.

Titles:
%s

Respond in JSON format:
{
  "best": "<the chosen title, verbatim>"
}`
)

// Topic expansion prompt (for the suggest command)
const (
	TopicExpansionSystemPrompt = `You are an expert SEO blog writer.`

	TopicExpansionUserPrompt = `Generate %d blog topics related to %s. Make them engaging and SEO-friendly.

Respond in JSON format:
{
  "topics": ["<topic1>", "<topic2>"]
}`
)

// Grammar correction prompt, used by the degraded quality checker
const (
	GrammarSystemPrompt = `You are a meticulous copy editor.`

	GrammarUserPrompt = `Correct any grammar and spelling mistakes in the following text. Return ONLY the corrected text, with no commentary and no formatting changes beyond the corrections themselves.

%s`
)
