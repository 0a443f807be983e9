package persistencecache

import (
	"reflect"
	"testing"
)

func TestLocationPathConverter_ToPathIDs(t *testing.T) {
	var conv LocationPathConverter

	tests := []struct {
		name    string
		path    string
		want    []int64
		wantErr bool
	}{
		{name: "root child", path: "/1/2/", want: []int64{1, 2}},
		{name: "deep path", path: "/1/2/7/9/", want: []int64{1, 2, 7, 9}},
		{name: "single segment", path: "/1/", want: []int64{1}},
		{name: "no trailing slash", path: "/1/2/7", want: []int64{1, 2, 7}},
		{name: "empty", path: "", want: nil},
		{name: "bare slash", path: "/", want: nil},
		{name: "malformed segment", path: "/1/x/7/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToPathIDs(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToPathIDs(%q): %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToPathIDs(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
