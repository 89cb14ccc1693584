package models

// Statement is a rendered SQL statement with its positional arguments.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}
