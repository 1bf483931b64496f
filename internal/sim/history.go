package sim

// History keeps the most recent samples in a fixed-size ring.
type History struct {
	buf   []Sample
	start int
	n     int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Sample, capacity)}
}

func (h *History) OnStep(s Sample) { h.Push(s) }

func (h *History) Push(s Sample) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = s
		h.n++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

func (h *History) Len() int { return h.n }

// Samples returns the retained samples, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

func (h *History) Last() (Sample, bool) {
	if h.n == 0 {
		return Sample{}, false
	}
	return h.buf[(h.start+h.n-1)%len(h.buf)], true
}

func (h *History) Clear() {
	h.start, h.n = 0, 0
}
