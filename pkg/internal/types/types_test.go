package types_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/yeisme/pixels/pkg/internal/types"
)

func TestStringList_Unmarshal(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    types.StringList
		wantErr bool
	}{
		{name: "single string", in: `" https://a.example/x.png "`, want: types.StringList{"https://a.example/x.png"}},
		{name: "array", in: `["a", " b "]`, want: types.StringList{"a", "b"}},
		{name: "empty array", in: `[]`, want: types.StringList{}},
		{name: "null", in: `null`, want: types.StringList{}},
		{name: "number", in: `42`, wantErr: true},
		{name: "mixed array", in: `["a", 1]`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got types.StringList

			err := got.UnmarshalJSON([]byte(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestCreateImagesRequest_Decode(t *testing.T) {
	var req types.CreateImagesRequest

	body := `{"title":"Sunset","tags":"sky","imageURLs":"https://a.example/1.png"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(req.ImageURLs) != 1 || req.ImageURLs[0] != "https://a.example/1.png" {
		t.Errorf("unexpected urls %v", req.ImageURLs)
	}

	if len(req.Tags) != 1 || req.Tags[0] != "sky" {
		t.Errorf("unexpected tags %v", req.Tags)
	}
}

func TestResponseHelpers(t *testing.T) {
	ok := types.OK("done", 1)
	if !ok.Success || ok.Error != "" || ok.Data != 1 {
		t.Errorf("unexpected OK response %+v", ok)
	}

	fail := types.Fail("Failed to fetch images.", errors.New("db down"))
	if fail.Success || fail.Error != "db down" {
		t.Errorf("unexpected Fail response %+v", fail)
	}

	raw, _ := json.Marshal(types.Fail("x", nil))
	if string(raw) != `{"success":false,"message":"x"}` {
		t.Errorf("unexpected json %s", raw)
	}
}
