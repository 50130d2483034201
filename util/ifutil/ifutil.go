package ifutil

import (
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

// IsNil returns true if obj is nil or a nil value of a nillable kind (channel,
// function, interface, map, pointer, slice or unsafe pointer) wrapped in an
// interface.
func IsNil(obj interface{}) bool {
	if obj == nil {
		return true
	}
	value := reflect.ValueOf(obj)
	switch value.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return value.IsNil()
	}
	return false
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
}

// Diff returns the difference of two objects in "unified diff" format, or an
// empty string if their dumps are equal. Objects are dumped with spew, with
// Stringer methods disabled so that e.g. byte strings and text strings are
// told apart.
func Diff(labelA string, a interface{}, labelB string, b interface{}) string {
	return DiffContext(labelA, a, labelB, b, 1)
}

// DiffContext is like Diff with the given number of context lines.
func DiffContext(labelA string, a interface{}, labelB string, b interface{}, context int) string {
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(spewConfig.Sdump(a)),
		B:        difflib.SplitLines(spewConfig.Sdump(b)),
		FromFile: labelA,
		ToFile:   labelB,
		Context:  context,
	})
	if len(diff) < 2 {
		return diff
	}
	return diff[:len(diff)-2]
}
