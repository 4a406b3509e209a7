package summarizer

// summaryReadyMsg is sent when summarization completes.
type summaryReadyMsg struct {
	Summary string
	Err     error
}
