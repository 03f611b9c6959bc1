package ide

import "formula/internal/types"

// SegmentKind classifies one piece of a rendered signature.
type SegmentKind uint8

const (
	SegName SegmentKind = iota
	SegPunct
	SegSeparator
	SegEllipsis
	SegArrow
	SegParam
	SegReturnType
)

// Segment is one structured piece of a signature-help display. Hosts
// render and highlight segments without re-parsing any text: a SegParam
// carries the slot index to match against SignatureHelp.ActiveParameter.
type Segment struct {
	Kind SegmentKind
	// Text is set for name, punctuation, separator, arrow and return
	// segments.
	Text string
	// Name and Ty are set for SegParam.
	Name string
	Ty   string
	// ParamIndex is the display slot index for SegParam, -1 otherwise.
	ParamIndex int
}

// paramSlot is an intermediate display slot: a named parameter or the
// ellipsis between repeat groups and the tail.
type paramSlot struct {
	ellipsis bool
	name     string
	ty       string
	// index is the slot position in the displayed list; the ellipsis
	// occupies a position but is never highlighted.
	index int
}

// renderedSignature carries the display slots plus the split-out
// receiver for method-style calls.
type renderedSignature struct {
	receiverName string
	receiverTy   string
	hasReceiver  bool
	slots        []paramSlot
}

// buildSegments flattens a rendered signature into display segments:
// `name(p1: ty1, p2: ty2, ...) -> ret`, with the receiver prefix
// `(recv).` for method style.
func buildSegments(funcName string, rendered *renderedSignature, ret types.Ty, methodStyle bool) []Segment {
	var out []Segment
	punct := func(text string) Segment {
		return Segment{Kind: SegPunct, Text: text, ParamIndex: -1}
	}

	if methodStyle && rendered.hasReceiver {
		out = append(out,
			punct("("),
			Segment{Kind: SegParam, Name: rendered.receiverName, Ty: rendered.receiverTy, ParamIndex: -1},
			punct(")"),
			punct("."),
		)
	}

	out = append(out,
		Segment{Kind: SegName, Text: funcName, ParamIndex: -1},
		punct("("),
	)

	for i, slot := range rendered.slots {
		if i > 0 {
			out = append(out, Segment{Kind: SegSeparator, Text: ", ", ParamIndex: -1})
		}
		if slot.ellipsis {
			out = append(out, Segment{Kind: SegEllipsis, Text: "...", ParamIndex: -1})
			continue
		}
		out = append(out, Segment{Kind: SegParam, Name: slot.name, Ty: slot.ty, ParamIndex: slot.index})
	}

	out = append(out,
		punct(")"),
		Segment{Kind: SegArrow, Text: " -> ", ParamIndex: -1},
		Segment{Kind: SegReturnType, Text: ret.Display(), ParamIndex: -1},
	)
	return out
}
