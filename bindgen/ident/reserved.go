package ident

// Suffix tokens appended when a canonical identifier collides with an IDL
// reserved word. The two contexts use distinct suffixes so that escaping a
// plain identifier can never collide with an escaped resource name.
const (
	witIdentSuffix    = "-id"
	witResourceSuffix = "-res"
	langSuffix        = "_"
)

// witReserved is the canonical IDL reserved-word set. Identifiers in the
// generated document must never equal any of these.
var witReserved = map[string]bool{
	"as": true, "async": true, "bool": true, "borrow": true, "char": true,
	"constructor": true, "enum": true, "export": true, "f32": true,
	"f64": true, "flags": true, "float32": true, "float64": true,
	"from": true, "func": true, "future": true, "import": true,
	"include": true, "interface": true, "list": true, "option": true,
	"own": true, "package": true, "record": true, "resource": true,
	"result": true, "s16": true, "s32": true, "s64": true, "s8": true,
	"static": true, "stream": true, "string": true, "tuple": true,
	"type": true, "u16": true, "u32": true, "u64": true, "u8": true,
	"union": true, "use": true, "variant": true, "with": true,
	"world": true,
}

// pythonReserved is the source-language keyword set, applied after snake_case
// conversion. Escaping follows the PEP 8 convention of a trailing underscore.
var pythonReserved = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true,
	"for": true, "from": true, "global": true, "if": true, "import": true,
	"in": true, "is": true, "lambda": true, "nonlocal": true, "not": true,
	"or": true, "pass": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

// jsReserved is the consumer-language reserved-word set, applied after
// camelCase conversion to generated parameter names.
var jsReserved = map[string]bool{
	"arguments": true, "await": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "eval": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true,
}

// IsWitReserved reports whether the kebab-case identifier collides with an
// IDL reserved word.
func IsWitReserved(kebab string) bool {
	return witReserved[kebab]
}

// EscapeWit escapes a canonical kebab-case identifier for use as a plain IDL
// identifier (function, parameter, interface, or world name).
func EscapeWit(kebab string) string {
	if witReserved[kebab] {
		return kebab + witIdentSuffix
	}
	return kebab
}

// EscapeWitResource escapes a canonical kebab-case identifier for use as an
// IDL resource name. Resources use a suffix distinct from plain identifiers
// so the two escape paths cannot introduce a fresh collision.
func EscapeWitResource(kebab string) string {
	if witReserved[kebab] {
		return kebab + witResourceSuffix
	}
	return kebab
}

// EscapePython escapes a snake_case name against Python keywords. Applied
// after Snake conversion, so a name may carry both the IDL-level and the
// language-level escape in sequence.
func EscapePython(snake string) string {
	if pythonReserved[snake] {
		return snake + langSuffix
	}
	return snake
}

// EscapeJS escapes a camelCase name against JavaScript reserved words.
func EscapeJS(camel string) string {
	if jsReserved[camel] {
		return camel + langSuffix
	}
	return camel
}
