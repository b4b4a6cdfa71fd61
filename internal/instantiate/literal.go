package instantiate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/watconform/watconform/api"
	"github.com/watconform/watconform/internal/wasm"
	"github.com/watconform/watconform/internal/watruntime"
)

// parseLiteral parses the single immediate atom of a *.const instruction
// into a wasm.Value of type t. Integer literals accept decimal, 0x hex,
// and 0b binary with _ separators; float literals additionally accept
// inf, nan, nan:0x payloads, and hex-float notation.
func parseLiteral(t api.ValueType, text string) (wasm.Value, error) {
	switch t {
	case api.ValueTypeI32:
		v, err := parseIntLiteral(text, 32)
		if err != nil {
			return wasm.Value{}, err
		}
		return wasm.I32(int32(v)), nil
	case api.ValueTypeI64:
		v, err := parseIntLiteral(text, 64)
		if err != nil {
			return wasm.Value{}, err
		}
		return wasm.I64(v), nil
	case api.ValueTypeF32:
		v, err := parseFloatLiteral(text, 32)
		if err != nil {
			return wasm.Value{}, err
		}
		return wasm.F32(float32(v)), nil
	case api.ValueTypeF64:
		v, err := parseFloatLiteral(text, 64)
		if err != nil {
			return wasm.Value{}, err
		}
		return wasm.F64(v), nil
	default:
		return wasm.Value{}, fmt.Errorf("unsupported literal type %s", t)
	}
}

func parseIntLiteral(text string, bits int) (int64, error) {
	s := strings.ReplaceAll(text, "_", "")
	neg := false
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	} else if strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B") {
		base = 2
		s = s[2:]
	}
	u, err := strconv.ParseUint(s, base, bits)
	if err != nil {
		// Wrap as an unsigned-range literal (e.g. i32 4294967295) which
		// ParseUint with exact bit width already accepts; fall back to
		// reparsing at full 64 bits and truncating, matching the text
		// format's acceptance of either a signed or unsigned encoding.
		u2, err2 := strconv.ParseUint(s, base, 64)
		if err2 != nil {
			return 0, fmt.Errorf("%w: invalid integer literal %q", watruntime.ErrUnexpectedToken, text)
		}
		u = u2
	}
	v := int64(u)
	if neg {
		v = -v
	}
	return v, nil
}

func parseFloatLiteral(text string, bits int) (float64, error) {
	s := strings.ReplaceAll(text, "_", "")
	neg := false
	body := s
	if strings.HasPrefix(body, "+") {
		body = body[1:]
	} else if strings.HasPrefix(body, "-") {
		neg = true
		body = body[1:]
	}
	body = strings.ToLower(body)
	switch {
	case body == "inf":
		if neg {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	case strings.HasPrefix(body, "nan"):
		if body == "nan" {
			if bits == 32 {
				return float64(math.Float32frombits(0x7fc00000)), nil
			}
			return math.Float64frombits(0x7ff8000000000000), nil
		}
		if strings.HasPrefix(body, "nan:0x") {
			payload, err := strconv.ParseUint(body[6:], 16, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: invalid nan payload %q", watruntime.ErrUnexpectedToken, text)
			}
			if bits == 32 {
				bits32 := uint32(0x7f800000 | (payload & 0x7fffff))
				if neg {
					bits32 |= 0x80000000
				}
				return float64(math.Float32frombits(bits32)), nil
			}
			bits64 := uint64(0x7ff0000000000000) | (payload & 0xfffffffffffff)
			if neg {
				bits64 |= 0x8000000000000000
			}
			return math.Float64frombits(bits64), nil
		}
	}
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return f, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid float literal %q", watruntime.ErrUnexpectedToken, text)
	}
	return f, nil
}
