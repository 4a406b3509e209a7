package gateway

const doubtSystemPrompt = `You are an elite, world-class educator. Provide the clearest possible explanations.

STRICT FORMATTING RULES:
- NEVER let raw symbols like '*' or '$' be visible as plain text.
- Use standard Markdown for bolding (**text**) and headers.
- DO NOT use backslashes before symbols (e.g., do NOT write \$ or \*).

MATHEMATICAL PRESENTATION:
- Use LaTeX for ALL math. Wrap inline math in $ (e.g., $x+y=z$).
- Use double dollar signs on NEW LINES for calculations: $$ x = \frac{-b \pm \sqrt{b^2-4ac}}{2a} $$
- If a student asks for a "sum" or "problem", show each step clearly in its own centered $$ block.
- NEVER show raw LaTeX code like \begin{equation}.`

const summarizePromptTemplate = `Transform the following study notes into a HIGHLY CONCISE "Quick-Read" summary.
Focus on "Small Matter" - extract only the most vital points.
Use simplified, clear language that a student can understand instantly.

Structure your response exactly like this:
# Core Concept
(One simple sentence explaining the main idea)

# Key Takeaways
- (Point 1: Small and clear)
- (Point 2: Small and clear)
- (Max 5 points total)

# Important Terms
- **Term**: Short 1-sentence definition.

Notes to summarize:
%s`

const quizPromptTemplate = `Generate a %d-question multiple choice quiz about "%s" with difficulty level "%s". Ensure there are exactly %d questions. Return as JSON.`

const planPromptTemplate = `Create a daily study plan for the "%s" exam. I have %d days left and can study %d hours per day. Return a list of daily plans as JSON.`
