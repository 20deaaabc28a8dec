package model

// DuplicateCandidate is an advisory pair of same-type entities whose variants
// are similar. IDA always sorts before IDB.
type DuplicateCandidate struct {
	Type               EntityType `json:"entity_type"`
	IDA                string     `json:"id_a"`
	NameA              string     `json:"name_a"`
	IDB                string     `json:"id_b"`
	NameB              string     `json:"name_b"`
	Similarity         float64    `json:"similarity"`
	MatchedVariantPair [2]string  `json:"matched_variant_pair"`
}
