package domain

// Storage keys and wire constants shared by the freeze and thaw engines.
const (
	// BranchesKey is the storage key holding the JSON encoded []Branch.
	BranchesKey = "frost:branches"

	// FieldsKey is the storage key holding the JSON encoded map of path -> Fields.
	FieldsKey = "frost:fields"

	// PathSeparator joins node names into a path.
	PathSeparator = "/"

	// NameField is the reserved field carrying a node's name inside its Fields.
	// The frozen name is authoritative on thaw.
	NameField = "name"
)
