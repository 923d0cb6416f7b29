package model

// Identity is the opaque authenticated-user handle produced by the auth
// layer. A zero Identity disables every store-backed operation: components
// treat the absence of a user as "nothing to do", not as an error.
type Identity string

// DeviceIdentity is the owner of device-scoped collections such as the
// offline task list. Those collections belong to the device, not to a
// signed-in user, and stay writable while signed out.
const DeviceIdentity Identity = "device"

// IsZero reports whether no user is signed in.
func (id Identity) IsZero() bool { return id == "" }

func (id Identity) String() string { return string(id) }
