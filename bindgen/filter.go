package bindgen

import (
	"strings"

	"github.com/wastalk/wastalk/schema"
)

// Exclusion policy for generated surfaces. Exception-like classes do not
// translate to stateful resources, and codec/stream machinery is internal
// plumbing of the foreign package. All three generators consume this filter
// through the plan; none re-implements it.

var excludedClassPrefixes = []string{"invalid", "incremental", "stream"}

var excludedClassSuffixes = []string{"error", "exception"}

// dunderMethods is the fixed set of special methods excluded from every
// generated surface. The constructor is carried separately on the class, so
// __init__ appearing in the method list is also excluded here.
var dunderMethods = map[string]bool{
	"__init__": true, "__new__": true, "__del__": true,
	"__repr__": true, "__str__": true, "__bytes__": true,
	"__format__": true, "__hash__": true, "__bool__": true,
	"__len__": true, "__iter__": true, "__next__": true,
	"__getitem__": true, "__setitem__": true, "__delitem__": true,
	"__contains__": true, "__call__": true, "__enter__": true,
	"__exit__": true, "__eq__": true, "__ne__": true, "__lt__": true,
	"__le__": true, "__gt__": true, "__ge__": true,
}

// IsExportableClass reports whether a class translates to an IDL resource.
func IsExportableClass(c *schema.Class) bool {
	name := strings.ToLower(c.Name)
	if name == "codec" {
		return false
	}
	for _, suffix := range excludedClassSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	for _, prefix := range excludedClassPrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// IsExportableMethod reports whether a method appears on the generated
// resource surface.
func IsExportableMethod(f *schema.Function) bool {
	if dunderMethods[f.Name] {
		return false
	}
	return !strings.HasPrefix(f.Name, "_")
}
