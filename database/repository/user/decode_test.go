package userRepo

import "testing"

func TestDecodeUser(t *testing.T) {
	cases := []struct {
		name    string
		doc     map[string]interface{}
		wantLoc bool
		deleted bool
	}{
		{"top-level coords", map[string]interface{}{"latitude": 14.5, "longitude": 121.0}, true, false},
		{"nested coords", map[string]interface{}{"location": map[string]interface{}{"latitude": "14.5", "longitude": "121"}}, true, false},
		{"no coords", map[string]interface{}{"name": "Cara"}, false, false},
		{"soft deleted", map[string]interface{}{"isDeleted": true}, false, true},
	}
	for _, tc := range cases {
		u := decodeUser("u1", tc.doc)
		if _, ok := u.Location(); ok != tc.wantLoc {
			t.Fatalf("%s: Location ok=%v, want %v", tc.name, ok, tc.wantLoc)
		}
		if u.IsDeleted != tc.deleted {
			t.Fatalf("%s: IsDeleted=%v, want %v", tc.name, u.IsDeleted, tc.deleted)
		}
	}
}
