package types

import (
	"errors"
	"fmt"
)

type ErrorKind uint8

const (
	InvalidInput ErrorKind = iota
	SpatialDegeneracy
	ClassifierAmbiguous
	ResourceExhausted
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSpatialDegeneracy   = errors.New("spatial degeneracy")
	ErrClassifierAmbiguous = errors.New("classifier ambiguous")
	ErrResourceExhausted   = errors.New("resource exhausted")
)

var kindErrors = [...]error{
	InvalidInput:        ErrInvalidInput,
	SpatialDegeneracy:   ErrSpatialDegeneracy,
	ClassifierAmbiguous: ErrClassifierAmbiguous,
	ResourceExhausted:   ErrResourceExhausted,
}

func (k ErrorKind) String() string {
	if int(k) < len(kindErrors) {
		return kindErrors[k].Error()
	}
	return "unknown error kind"
}

// MeshError carries the failure kind and the face it aborted
type MeshError struct {
	Kind   ErrorKind
	FaceID int
	Op     string
	Err    error
}

func NewMeshError(kind ErrorKind, op string, format string, args ...any) *MeshError {
	return &MeshError{
		Kind:   kind,
		FaceID: -1,
		Op:     op,
		Err:    fmt.Errorf(format, args...),
	}
}

func (e *MeshError) Error() string {
	var msg string
	if e.FaceID >= 0 {
		msg = fmt.Sprintf("face %d: ", e.FaceID)
	}
	msg += e.Op + ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MeshError) Unwrap() error { return e.Err }

// Is matches the sentinel error for the kind, so errors.Is(err, ErrSpatialDegeneracy) works through wrapping
func (e *MeshError) Is(target error) bool {
	if int(e.Kind) < len(kindErrors) && target == kindErrors[e.Kind] {
		return true
	}
	if t, ok := target.(*MeshError); ok {
		return t.Kind == e.Kind
	}
	return false
}

/*
WithFace attaches the face ID to err. An outermost MeshError is stamped in
place; a MeshError deeper in the chain is wrapped by a new one of the same
kind so the ID shows in the message. A plain error takes the kind of any
sentinel it wraps, or kind.
*/
func WithFace(err error, faceID int, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MeshError); ok {
		if me.FaceID < 0 {
			me.FaceID = faceID
		}
		return err
	}
	var me *MeshError
	if errors.As(err, &me) {
		return &MeshError{Kind: me.Kind, FaceID: faceID, Op: "mesh", Err: err}
	}
	for k, sentinel := range kindErrors {
		if errors.Is(err, sentinel) {
			kind = ErrorKind(k)
			break
		}
	}
	return &MeshError{Kind: kind, FaceID: faceID, Op: "mesh", Err: err}
}

// KindOf returns the kind of the first MeshError in the chain
func KindOf(err error) (kind ErrorKind, ok bool) {
	var me *MeshError
	if errors.As(err, &me) {
		return me.Kind, true
	}
	return
}
