package sqlcore

// ScalarFunction is one overload of a named scalar function: a fixed
// argument-type signature, a return type, and a kernel that evaluates it
// over Arrow arrays. The kernel type is defined in package kernel and
// referenced here only as an opaque callable to avoid a cycle between the
// expression model and the kernel implementations.
type ScalarFunction struct {
	Name       string
	ArgTypes   []LogicalType
	ReturnType LogicalType
	Kernel     any // concretely kernel.ScalarKernel; kept opaque at this layer.
}

// ScalarFunctionCatalogEntry is a set of overloads sharing one name,
// resolved by the FunctionBinder (§4.3).
type ScalarFunctionCatalogEntry struct {
	Name     string
	Overload []*ScalarFunction
}

// TableFunctionBindFunc runs a table function's bind phase: given its call
// arguments, produce the output (names, types) and an opaque bind_data
// handle the execute phase receives back.
type TableFunctionBindFunc func(args []ScalarValue) (names []string, types []LogicalType, bindData any, err error)

// TableFunctionCatalogEntry names a callable whose bind phase produces
// (names, types, bind_data) and whose execute phase yields record batches
// (the execute phase itself lives in internal/executor/volcano, keyed by
// function Name).
type TableFunctionCatalogEntry struct {
	Name string
	Bind TableFunctionBindFunc
}
