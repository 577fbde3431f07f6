package hconf

import (
	"errors"
	"testing"

	"github.com/signadot/hconf/encode"
	"github.com/signadot/hconf/ir"
)

type pathTest struct {
	Path  string
	Doc   string
	Res   string
	Err   error
	NoGet bool
}

var pathTests = []pathTest{
	{
		Path: "",
		Doc:  "f: 1",
		Res:  "f: 1",
	},
	{
		Path: "f",
		Doc:  "f: 1",
		Res:  "1",
	},
	{
		Path: "f[0]",
		Doc:  "f: [1, 2, 3]",
		Res:  "1",
	},
	{
		Path: "f.2",
		Doc:  "f: [1, 2, 3]",
		Res:  "3",
	},
	{
		Path: "a[1].f",
		Doc:  `{"a": [0, {"f": 2, "g": 3}]}`,
		Res:  "2",
	},
	{
		Path: `"f[3]"[2]`,
		Doc:  `{"a": [1,2], "f[3]": [0,1,2,"three"]}`,
		Res:  "2",
	},
	{
		Path: "b",
		Doc:  "a: 1\nb: ${a}",
		Res:  "1",
	},
	{
		Path: "x",
		Doc:  "a: 1",
		Err:  ErrPathNotFound,
	},
	{
		Path: "a[4]",
		Doc:  "a: [1]",
		Err:  ErrPathNotFound,
	},
	{
		Path: "a.b",
		Doc:  "a: 1",
		Err:  ErrPathNotFound,
	},
	{
		Path: "a..b",
		Doc:  "a: 1",
		Err:  ErrSyntax,
	},
	{
		Path: "a",
		Doc:  "a: ???",
		Err:  ErrMissingRequired,
	},
	{
		NoGet: true,
		Path:  "[*]",
		Doc:   "[1, 2, 3]",
		Res:   "- 1\n- 2\n- 3",
	},
	{
		NoGet: true,
		Path:  "a[*]",
		Doc:   "b: [1, 2, 3]",
		Res:   "[]",
	},
	{
		NoGet: true,
		Path:  "layers[*].size",
		Doc:   "layers:\n- size: 1\n- act: relu\n- size: 3",
		Res:   "- 1\n- 3",
	},
	{
		NoGet: true,
		Path:  "*.lr",
		Doc:   "optim: {lr: 1e-6}\nsched: {lr: 0.1}\nname: x",
		Res:   "- 1e-6\n- 0.1",
	},
}

func TestPathGet(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		if pathTest.NoGet {
			continue
		}
		doc, err := Load([]byte(pathTest.Doc))
		if err != nil {
			t.Errorf("# doc\n%s\n---\n# %v\n", pathTest.Doc, err)
			continue
		}
		res, err := doc.Get(pathTest.Path)
		if pathTest.Err != nil {
			if !errors.Is(err, pathTest.Err) {
				t.Errorf("get %q: expected %v, got %v", pathTest.Path, pathTest.Err, err)
			}
			var pe *PathError
			if !errors.As(err, &pe) || pe.Path != pathTest.Path {
				t.Errorf("get %q: error %v lacks the path", pathTest.Path, err)
			}
			continue
		}
		if err != nil {
			t.Error(err)
			continue
		}
		if out := encode.MustString(res); out != pathTest.Res {
			t.Errorf("get %q: got %q want %q", pathTest.Path, out, pathTest.Res)
		}
	}
}

func TestPathList(t *testing.T) {
	for i := range pathTests {
		pathTest := &pathTests[i]
		if pathTest.Err != nil {
			continue
		}
		doc, err := Load([]byte(pathTest.Doc))
		if err != nil {
			t.Errorf("# doc\n%s\n---\n# %v\n", pathTest.Doc, err)
			continue
		}
		lst, err := doc.List(pathTest.Path)
		if err != nil {
			t.Error(err)
			continue
		}
		if !pathTest.NoGet {
			if len(lst) != 1 {
				t.Errorf("list %q gave %d results", pathTest.Path, len(lst))
				continue
			}
			if ls := encode.MustString(lst[0]); ls != pathTest.Res {
				t.Errorf("# list gave\n%s\n---\n# want\n%s", ls, pathTest.Res)
			}
			continue
		}
		if ls := encode.MustString(ir.FromSlice(lst)); ls != pathTest.Res {
			t.Errorf("# list gave\n%s\n---\n# want\n%s", ls, pathTest.Res)
		}
	}
}
