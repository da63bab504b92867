package ifevalko

import (
	"errors"
	"fmt"
)

// ErrKeywordsUnsupported is returned by GenerateKeywords. It matches
// errors.ErrUnsupported.
var ErrKeywordsUnsupported = fmt.Errorf(
	"ifevalko: keyword generation is not supported for Korean IFEval; keywords must be provided in the dataset kwargs: %w",
	errors.ErrUnsupported,
)

