package chunk

// Window is a half-open token range [Start, End) into a token slice.
type Window struct {
	Index int
	Start int
	End   int
}

// SlidingWindow cuts n tokens into windows of size tokens that overlap by
// overlap tokens. The last window always ends at n, so every token is covered.
func SlidingWindow(n, size, overlap int) []Window {
	if size <= 0 || n <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}
	if n <= size {
		return []Window{{Index: 0, Start: 0, End: n}}
	}

	step := size - overlap
	windows := make([]Window, 0, (n/step)+1)
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
			start = max(0, end-size)
		}
		windows = append(windows, Window{Index: len(windows), Start: start, End: end})
		if end == n {
			break
		}
	}
	return windows
}

// Tokens returns the slice of tokens covered by w.
func (w Window) Tokens(tokens []string) []string {
	return tokens[w.Start:w.End]
}
