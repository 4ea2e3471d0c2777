package session

import "testing"

// FuzzDecodeIdentity feeds arbitrary bodies to the identity decoder.
// Goal: no panics, and every accepted payload satisfies the identity invariant.
func FuzzDecodeIdentity(f *testing.F) {
	f.Add([]byte(`{"id":"1","email":"ada@example.com","name":"Ada"}`))
	f.Add([]byte(`{"email":"ada@example.com","name":null,"extra":[1,2,3]}`))
	f.Add([]byte{})
	f.Add([]byte(`{`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"name":1}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		identity, err := DecodeIdentity(data)
		if err != nil {
			return
		}
		if identity.Name == "" && identity.Email == "" {
			t.Fatalf("accepted identity without name or email: %q", data)
		}
		s := Present(identity)
		if _, ok := s.Identity(); !ok {
			t.Fatal("present session lost its identity")
		}
	})
}
