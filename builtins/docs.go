package builtins

// FuncSpec documents a builtin function.
type FuncSpec struct {
	Name    string   `json:"name"`
	Doc     string   `json:"doc"`
	Args    []string `json:"args"`
	Returns string   `json:"returns"`
	Example string   `json:"example"`
}

// Docs returns documentation for all builtin functions.
func Docs() []FuncSpec {
	return builtinDocs
}

var builtinDocs = []FuncSpec{
	{
		Name:    "clock",
		Doc:     "Return the milliseconds elapsed since the Unix epoch",
		Args:    []string{},
		Returns: "number",
		Example: "var start = clock();",
	},
	{
		Name:    "len",
		Doc:     "Return the length of a string in bytes",
		Args:    []string{"s"},
		Returns: "number",
		Example: "len(\"hello\")",
	},
	{
		Name:    "str",
		Doc:     "Return the printed form of a value as a string",
		Args:    []string{"value"},
		Returns: "string",
		Example: "\"n = \" + str(42)",
	},
	{
		Name:    "type",
		Doc:     "Return the type name of a value",
		Args:    []string{"value"},
		Returns: "string",
		Example: "type(clock) == \"native\"",
	},
}
