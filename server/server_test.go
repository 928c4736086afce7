package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pbanos/sprout/feature"
	"github.com/pbanos/sprout/tree"
	. "github.com/smartystreets/goconvey/convey"
)

func stump() *tree.Tree {
	left := tree.NewLeaf(1, tree.Counts{5, 0}, feature.NewCriterion("x", feature.LessOrEqual, 0.5))
	right := tree.NewLeaf(1, tree.Counts{0, 5}, feature.NewCriterion("x", feature.Greater, 0.5))
	root := tree.NewInternal(0, tree.Counts{5, 5}, nil, "x", 0.5, left, right)
	return tree.New(root, "y", []string{"x"}, "gini", 1)
}

func constant(v int) *tree.Tree {
	counts := tree.Counts{1, 0}
	if v == 1 {
		counts = tree.Counts{0, 1}
	}
	return tree.New(tree.NewLeaf(0, counts, nil), "y", []string{"x"}, "gini", 0)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer(t *testing.T) {
	Convey("Given a server for a forest of a stump and a tree voting 0", t, func() {
		h := New(tree.NewForest(stump(), constant(0)), nil).Handler()
		Convey("GET /healthz answers ok", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})
		Convey("GET /trees answers the rendered trees", func() {
			w := do(h, http.MethodGet, "/trees", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var body struct {
				Label string         `json:"label"`
				Trees []treeResponse `json:"trees"`
			}
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Label, ShouldEqual, "y")
			So(body.Trees, ShouldHaveLength, 2)
			So(body.Trees[0].Nodes, ShouldEqual, 3)
			So(body.Trees[0].Rendered, ShouldEqual, stump().String())
		})
		Convey("POST /predict answers predictions and votes", func() {
			w := do(h, http.MethodPost, "/predict", `{"rows":[{"x":0.2},{"x":0.9}]}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp PredictResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Predictions, ShouldResemble, []int{0, 1})
			So(resp.Votes, ShouldResemble, []float64{0, 0.5})
		})
		Convey("POST /predict with a row lacking a feature is unprocessable", func() {
			w := do(h, http.MethodPost, "/predict", `{"rows":[{"z":0.2}]}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(w.Body.String(), ShouldContainSubstring, "row 0")
		})
		Convey("POST /predict with a malformed body is a bad request", func() {
			w := do(h, http.MethodPost, "/predict", `{"rows":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
