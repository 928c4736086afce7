package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pbanos/sprout/dataset"
	"github.com/pbanos/sprout/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDataLocation(t *testing.T) {
	testCases := []struct {
		path string
		isDB bool
	}{
		{"", false},
		{"data.csv", false},
		{"data.tsv", false},
		{"data.db", true},
		{"postgresql://localhost/sprout", true},
		{"mongodb://localhost/sprout", true},
	}
	for _, tc := range testCases {
		if got := (dataLocation{tc.path, "t"}).isDB(); got != tc.isDB {
			t.Errorf("dataLocation{%q}.isDB() = %v, expected %v", tc.path, got, tc.isDB)
		}
	}
}

func TestResample(t *testing.T) {
	ds, err := dataset.New([]string{"x", "y"}, [][]float64{{0, 0}, {1, 1}, {2, 0}, {3, 1}})
	if err != nil {
		t.Fatal(err)
	}
	Convey("Given a dataset", t, func() {
		Convey("bootstrap resamples have its size", func() {
			datasets, err := resample(ds, resampleBootstrap, 3, 1)
			So(err, ShouldBeNil)
			So(datasets, ShouldHaveLength, 3)
			for _, d := range datasets {
				So(d.Count(), ShouldEqual, 4)
			}
		})
		Convey("partition chunks cover it", func() {
			datasets, err := resample(ds, resamplePartition, 2, 1)
			So(err, ShouldBeNil)
			So(datasets, ShouldHaveLength, 2)
			So(datasets[0].Count()+datasets[1].Count(), ShouldEqual, 4)
		})
		Convey("unknown strategies are rejected", func() {
			_, err := resample(ds, "jackknife", 2, 1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDatasetRoundTrip(t *testing.T) {
	ctx := context.Background()
	config := newRootCmdConfig()
	md := &feature.Metadata{Features: []string{"x"}, Label: "y"}
	ds, err := dataset.New(md.Columns(), [][]float64{{0.5, 0}, {1.5, 1}, {2.5, 1}})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	Convey("Given a dataset", t, func() {
		for _, path := range []string{"data.csv", "data.tsv", "data.db"} {
			dl := dataLocation{filepath.Join(dir, path), "rows"}
			Convey("it can be written to and read back from "+path, func() {
				So(config.writeDataset(ctx, dl, ds), ShouldBeNil)
				read, err := config.loadDataset(ctx, dl, md)
				So(err, ShouldBeNil)
				So(read.Columns(), ShouldResemble, ds.Columns())
				So(read.Rows(), ShouldResemble, ds.Rows())
			})
		}
		Convey("reading a database without metadata fails", func() {
			_, err := config.loadDataset(ctx, dataLocation{filepath.Join(dir, "other.db"), "rows"}, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
