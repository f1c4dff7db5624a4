package fields

// WalkFunc is invoked for every definition reached by Walk. Returning a
// non-nil error stops the traversal.
type WalkFunc func(path string, f Field) error

// Walk visits the list depth-first. Object and group children are addressed
// as "parent.child"; array item definitions as "parent[]".
func Walk(list List, fn WalkFunc) error {
	return walkList(list, "", fn)
}

func walkList(list List, parent string, fn WalkFunc) error {
	for _, f := range list {
		if f == nil {
			continue
		}
		if err := walkField(f, joinPath(parent, f.Meta().Name), fn); err != nil {
			return err
		}
	}
	return nil
}

func walkField(f Field, path string, fn WalkFunc) error {
	if err := fn(path, f); err != nil {
		return err
	}
	switch typed := f.(type) {
	case *Array:
		if typed.ItemType != nil {
			return walkField(typed.ItemType, path+"[]", fn)
		}
	case *Object:
		return walkList(typed.Fields, path, fn)
	case *Group:
		return walkList(typed.Fields, path, fn)
	}
	return nil
}

// Ptr returns a pointer to value. It keeps schema literals with optional
// attributes short.
func Ptr[T any](value T) *T {
	return &value
}
