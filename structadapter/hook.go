package structadapter

import "reflect"

// postDeserializeHook records whether T has a recognized post-deserialize
// method, detected once at adapter-build time per the `PostDeserialize()`
// / `PostDeserialize() error` naming convention (distilled-spec §4.6 and
// §6.3: Go has no zero-argument annotation short of a naming
// convention, so the convention is the contract).
type postDeserializeHook struct {
	present    bool
	returnsErr bool
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func detectPostDeserializeHook(t reflect.Type) postDeserializeHook {
	m, ok := reflect.PointerTo(t).MethodByName("PostDeserialize")
	if !ok {
		return postDeserializeHook{}
	}

	// Func signature is (receiver, ...); a zero-arg method has NumIn()==1.
	sig := m.Type
	if sig.NumIn() != 1 {
		return postDeserializeHook{}
	}

	switch sig.NumOut() {
	case 0:
		return postDeserializeHook{present: true}
	case 1:
		if sig.Out(0) == errorType {
			return postDeserializeHook{present: true, returnsErr: true}
		}

		return postDeserializeHook{}
	default:
		return postDeserializeHook{}
	}
}

func (h postDeserializeHook) invoke(instance reflect.Value) error {
	if !h.present {
		return nil
	}

	out := instance.Addr().MethodByName("PostDeserialize").Call(nil)
	if h.returnsErr && len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}

	return nil
}
