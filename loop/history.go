package loop

// History keeps the most recent samples in a fixed ring, overwriting the
// oldest first. Overlays use it for frame-time graphs.
type History struct {
	samples []float32
	next    int
	count   int
}

// NewHistory creates a ring holding size samples. A size below 1 holds one.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{samples: make([]float32, size)}
}

// Push records v, evicting the oldest sample once the ring is full.
func (h *History) Push(v float32) {
	h.samples[h.next] = v
	h.next = (h.next + 1) % len(h.samples)
	if h.count < len(h.samples) {
		h.count++
	}
}

// Samples returns the ring's backing slice in storage order.
func (h *History) Samples() []float32 {
	return h.samples
}

// Len returns how many samples have been recorded, up to the ring size.
func (h *History) Len() int {
	return h.count
}

// Average returns the mean of the recorded samples, or 0 if there are none.
func (h *History) Average() float32 {
	if h.count == 0 {
		return 0
	}
	var total float32
	for _, v := range h.samples[:h.count] {
		total += v
	}
	if h.count < len(h.samples) {
		return total / float32(h.count)
	}
	return total / float32(len(h.samples))
}
