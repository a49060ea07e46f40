// Package dataset names the fixed schema of the quantification export.
package dataset

// Identifier and metadata columns required in every input.
const (
	ColProteinGroups = "PG.ProteinGroups"
	ColGenes         = "PG.Genes"
	ColOrganisms     = "PG.Organisms"
	ColIsDecoy       = "EG.IsDecoy"
)

// RequiredColumns lists the non-sample columns every input must carry.
var RequiredColumns = []string{
	ColProteinGroups,
	ColGenes,
	ColOrganisms,
	ColIsDecoy,
}

// GroupSeparator joins multiple protein identifiers into one compound key
// in the raw export.
const GroupSeparator = ";"
