package kernel

import (
	"fmt"
	"strings"

	"vectra/internal/value"
)

// rowKey builds a comparison/equality key for a single row, used by
// Classify and the sort kernels. It is a structural string encoding,
// not a hash, so equal rows always compare equal regardless of element
// kind mixing within box cells.
func rowKey(v value.Value) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:", v.Kind())
	for x := range value.Elements(v) {
		writeElem(&sb, x)
	}
	return sb.String()
}

func writeElem(sb *strings.Builder, v value.Value) {
	switch vv := v.(type) {
	case value.NumValue:
		fmt.Fprintf(sb, "%v,", vv.Arr.Data()[0])
	case value.ByteValue:
		fmt.Fprintf(sb, "%v,", vv.Arr.Data()[0])
	case value.ComplexValue:
		fmt.Fprintf(sb, "%v,", vv.Arr.Data()[0])
	case value.CharValue:
		fmt.Fprintf(sb, "%v,", vv.Arr.Data()[0])
	case value.BoxValue:
		sb.WriteString(rowKey(vv.Arr.Data()[0].V))
		sb.WriteByte(',')
	}
}
