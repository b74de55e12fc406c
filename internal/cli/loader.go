package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dualband/internal/reconcile"
)

// datasetSchema constrains reconciliation datasets before they reach the
// diagnostic. Shape errors surface here with a schema position instead of
// as a zero-valued measurement downstream.
const datasetSchema = `
#Measurement: {
	name:    string & !=""
	nominal: number
	bound:   number & >=0
}

#Dataset: {
	measurements: [#Measurement, ...#Measurement]
	weights?: [...number & >=0]
	anchor?: {
		nominal: number
		bound:   number & >=0
	}
}
`

// Dataset is one reconciliation input file: the measurements plus the
// optional weighting and anchor overrides.
type Dataset struct {
	Measurements []reconcile.Measurement `yaml:"measurements"`
	Weights      []float64               `yaml:"weights"`
	Anchor       *reconcile.Anchor       `yaml:"anchor"`
}

// DatasetError represents an error that occurred during dataset loading.
type DatasetError struct {
	Code    string
	Message string
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeParseFailed = "E003" // YAML parse failed
	ErrCodeSchema      = "E004" // Dataset schema violation
	ErrCodeStoreFailed = "E005" // Run store error
	ErrCodeDiagnostic  = "E006" // Diagnostic rejected the inputs
)

// LoadDataset reads a YAML dataset file and validates it against the
// dataset schema before decoding. All returned errors are *DatasetError.
func LoadDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &DatasetError{Code: ErrCodeNotFound, Message: fmt.Sprintf("dataset not found: %s", path)}
	}
	if err != nil {
		return nil, &DatasetError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading dataset: %v", err)}
	}

	// Decode untyped first so schema validation sees the file as written,
	// not as coerced by the typed decode.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &DatasetError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing dataset: %v", err)}
	}

	if err := validateDataset(doc); err != nil {
		return nil, err
	}

	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, &DatasetError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("decoding dataset: %v", err)}
	}
	return &ds, nil
}

// validateDataset unifies the decoded document with the dataset schema.
func validateDataset(doc any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(datasetSchema).LookupPath(cue.ParsePath("#Dataset"))
	if err := schema.Err(); err != nil {
		return &DatasetError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling dataset schema: %v", err)}
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return &DatasetError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("encoding dataset: %v", err)}
	}

	if err := schema.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return &DatasetError{Code: ErrCodeSchema, Message: fmt.Sprintf("dataset schema violation: %v", err)}
	}
	return nil
}
