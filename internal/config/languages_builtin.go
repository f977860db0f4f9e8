package config

const (
	patternDoubleQuoted = `"(?:[^"\\\n]|\\.)*"`
	patternSingleQuoted = `'(?:[^'\\\n]|\\.)*'`
	patternTripleDouble = `"""(?s:.*?)"""`
	patternTripleSingle = `'''(?s:.*?)'''`
	patternBacktick     = "`(?:[^`\\\\]|\\\\.)*`"
	patternRawBacktick  = "`[^`]*`"
	patternSlashLine    = `//.*`
	patternHashLine     = `#.*`
	patternSlashBlock   = `/\*(?s:.*?)\*/`
	patternNumber       = `\b(?:0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|\d[\d_]*(?:\.\d[\d_]*)?(?:[eE][+-]?\d+)?)\b`
	patternFunctionCall = `\b([A-Za-z_][A-Za-z0-9_]*)\s*\(`
)

// BuiltinLanguages returns the languages shipped with codepad.
func BuiltinLanguages() Languages {
	return Languages{Languages: []Language{
		{
			Name:      "python",
			FileTypes: []string{"py", "pyw", "pyi"},
			Keywords: []string{
				"False", "None", "True", "and", "as", "assert", "async", "await",
				"break", "class", "continue", "def", "del", "elif", "else", "except",
				"finally", "for", "from", "global", "if", "import", "in", "is",
				"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
				"while", "with", "yield",
			},
			Builtins: []string{
				"print", "len", "range", "int", "str", "float", "list", "dict",
				"set", "tuple", "bool", "open", "enumerate", "zip", "map", "filter",
				"isinstance", "super", "self", "type", "object",
			},
			LineComment: patternHashLine,
			Strings:     []string{patternTripleDouble, patternTripleSingle, patternDoubleQuoted, patternSingleQuoted},
			Number:      patternNumber,
			Function:    patternFunctionCall,
		},
		{
			Name:      "go",
			FileTypes: []string{"go"},
			Keywords: []string{
				"break", "case", "chan", "const", "continue", "default", "defer",
				"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
				"interface", "map", "package", "range", "return", "select", "struct",
				"switch", "type", "var",
			},
			Builtins: []string{
				"append", "cap", "clear", "close", "copy", "delete", "len", "make",
				"max", "min", "new", "panic", "print", "println", "recover",
				"bool", "byte", "error", "int", "int64", "rune", "string", "uint",
				"uint64", "float64", "any", "nil", "true", "false", "iota",
			},
			LineComment:  patternSlashLine,
			BlockComment: patternSlashBlock,
			Strings:      []string{patternDoubleQuoted, patternSingleQuoted, patternRawBacktick},
			Number:       patternNumber,
			Function:     patternFunctionCall,
		},
		{
			Name:      "swift",
			FileTypes: []string{"swift"},
			Keywords: []string{
				"associatedtype", "class", "deinit", "enum", "extension", "fileprivate",
				"func", "import", "init", "inout", "internal", "let", "open",
				"operator", "private", "protocol", "public", "static", "struct",
				"subscript", "typealias", "var", "break", "case", "continue",
				"default", "defer", "do", "else", "fallthrough", "for", "guard", "if",
				"in", "repeat", "return", "switch", "where", "while", "as", "catch",
				"false", "is", "nil", "self", "super", "throw", "throws", "true", "try",
				"async", "await", "some", "any",
			},
			Builtins: []string{
				"print", "String", "Int", "Double", "Float", "Bool", "Array",
				"Dictionary", "Set", "Optional", "Character", "min", "max", "abs",
			},
			LineComment:  patternSlashLine,
			BlockComment: patternSlashBlock,
			Strings:      []string{patternTripleDouble, patternDoubleQuoted},
			Number:       patternNumber,
			Function:     patternFunctionCall,
		},
		{
			Name:      "javascript",
			FileTypes: []string{"js", "mjs", "cjs", "jsx"},
			Keywords: []string{
				"async", "await", "break", "case", "catch", "class", "const",
				"continue", "debugger", "default", "delete", "do", "else", "export",
				"extends", "finally", "for", "function", "if", "import", "in",
				"instanceof", "let", "new", "return", "super", "switch", "this",
				"throw", "try", "typeof", "var", "void", "while", "with", "yield",
				"true", "false", "null", "undefined",
			},
			Builtins: []string{
				"console", "window", "document", "Array", "Object", "String",
				"Number", "Boolean", "Promise", "Map", "Set", "JSON", "Math",
			},
			LineComment:  patternSlashLine,
			BlockComment: patternSlashBlock,
			Strings:      []string{patternDoubleQuoted, patternSingleQuoted, patternBacktick},
			Number:       patternNumber,
			Function:     patternFunctionCall,
		},
	}}
}
