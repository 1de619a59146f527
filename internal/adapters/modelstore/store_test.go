package modelstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gridcast/internal/adapters/modelstore"
	"github.com/okian/gridcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/mat"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirStore(t *testing.T) {
	Convey("Given a model directory with one model and a feature index", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "price.json", `{"intercept": 1, "coef": [2, 3]}`)
		writeFile(t, dir, modelstore.FeatureListFile, `{"price": ["temp", "hour"], "carbonIntensity": ["wind"]}`)
		store := modelstore.NewDir(dir)
		ctx := context.Background()

		Convey("When loading models for several targets", func() {
			models, err := store.LoadModels(ctx, []string{"powerDemand", "price", "carbonIntensity"})

			Convey("Then only targets with a model file are returned", func() {
				So(err, ShouldBeNil)
				So(models, ShouldHaveLength, 1)
				So(models, ShouldContainKey, "price")

				preds, err := models["price"].Predict(mat.NewDense(1, 2, []float64{1, 1}))
				So(err, ShouldBeNil)
				So(preds, ShouldResemble, []float64{6})
			})
		})

		Convey("When loading feature lists", func() {
			features, err := store.LoadFeatureLists(ctx)

			Convey("Then the recorded order is preserved", func() {
				So(err, ShouldBeNil)
				So(features["price"], ShouldResemble, []string{"temp", "hour"})
				So(features["carbonIntensity"], ShouldResemble, []string{"wind"})
			})
		})

		Convey("When a model file is malformed", func() {
			writeFile(t, dir, "powerDemand.json", `{"coef": [`)
			_, err := store.LoadModels(ctx, []string{"powerDemand"})

			Convey("Then the decode error propagates", func() {
				So(errors.Is(err, modelstore.ErrDecode), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty model directory", t, func() {
		store := modelstore.NewDir(t.TempDir())

		Convey("Then feature lists load as an empty mapping", func() {
			features, err := store.LoadFeatureLists(context.Background())
			So(err, ShouldBeNil)
			So(features, ShouldBeEmpty)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		lin := &model.Linear{Coef: []float64{1}}
		store := &modelstore.Memory{
			Models:   map[string]model.Model{"price": lin},
			Features: map[string][]string{"price": {"temp"}},
		}

		Convey("Then models are filtered by the requested targets", func() {
			models, err := store.LoadModels(context.Background(), []string{"price", "powerDemand"})
			So(err, ShouldBeNil)
			So(models, ShouldHaveLength, 1)
		})

		Convey("Then returned feature lists are copies", func() {
			features, err := store.LoadFeatureLists(context.Background())
			So(err, ShouldBeNil)
			features["price"][0] = "mutated"
			again, _ := store.LoadFeatureLists(context.Background())
			So(again["price"][0], ShouldEqual, "temp")
		})
	})
}
