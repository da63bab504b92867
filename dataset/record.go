// Package dataset downloads the IFEval-Ko benchmark from the HuggingFace hub
// and reads and writes it as JSONL records.
package dataset

// DefaultName is the HuggingFace repository of the Korean IFEval dataset.
const DefaultName = "allganize/IFEval-Ko"

// DefaultSplit is the only split the dataset publishes.
const DefaultSplit = "train"

// DefaultFileName is the JSONL file written under the data directory.
const DefaultFileName = "input_data.jsonl"

// Record is one benchmark prompt with the instructions it must satisfy.
// Kwargs holds one argument map per instruction, in the same order as
// InstructionIDList; absent arguments are kept as nulls.
type Record struct {
	Key               int64            `json:"key"`
	Prompt            string           `json:"prompt"`
	InstructionIDList []string         `json:"instruction_id_list"`
	Kwargs            []map[string]any `json:"kwargs"`
}
