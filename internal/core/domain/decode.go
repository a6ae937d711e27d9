package domain

// DecodeResult is the outcome of decoding raw bytes to text.
// Exactly one of Text or Err is meaningful.
type DecodeResult struct {
	Text string
	Err  error
}

// OK reports whether decoding succeeded.
func (r DecodeResult) OK() bool {
	return r.Err == nil
}

// Decoded returns a successful result.
func Decoded(text string) DecodeResult {
	return DecodeResult{Text: text}
}

// DecodeFailed returns a failed result.
func DecodeFailed(err error) DecodeResult {
	return DecodeResult{Err: err}
}
