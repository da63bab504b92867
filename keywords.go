package ifevalko

// GenerateKeywords would pick n random keywords for keyword-inclusion
// instructions. Korean IFEval ships its keywords inside each record's kwargs,
// so this always fails with ErrKeywordsUnsupported.
func GenerateKeywords(n int) ([]string, error) {
	_ = n
	return nil, ErrKeywordsUnsupported
}
