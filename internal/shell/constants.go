package shell

// PATH operations reported in PathError.Op
const (
	OpRead    = "read"
	OpPersist = "persist"
	OpAdd     = "add to"
)

// Separators for the search path variable
const (
	windowsListSeparator = ";"
	unixListSeparator    = ":"
)
