package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/repository/dataset"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	"github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
)

func seedDeps(t *testing.T) Dependencies {
	t.Helper()
	return Dependencies{
		OpenDataset: func(string) (*dataset.Repo, error) { return dataset.Seed() },
		Getenv:      func(string) string { return "" },
		Version:     "test",
	}
}

func run(t *testing.T, deps Dependencies, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Execute(context.Background(), args, deps, &out, &errOut)
	return code, out.String(), errOut.String()
}

func decodeError(t *testing.T, stderr string) alternate.ErrorJSON {
	t.Helper()
	var e alternate.ErrorJSON
	if err := json.Unmarshal([]byte(stderr), &e); err != nil {
		t.Fatalf("stderr is not an error object: %q (%v)", stderr, err)
	}
	return e
}

func TestRecommend_PrintsContract(t *testing.T) {
	code, stdout, stderr := run(t, seedDeps(t), "recommend", "1", "2")
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, stderr)
	}
	dishes, err := alternate.Decode([]byte(stdout))
	if err != nil {
		t.Fatalf("stdout does not decode: %v\n%s", err, stdout)
	}
	if len(dishes) == 0 || len(dishes) > 2 {
		t.Fatalf("got %d dishes, want 1..2", len(dishes))
	}
	for _, d := range dishes {
		if len(d.Supporters) == 0 {
			t.Errorf("%s has no supporters", d.DishName)
		}
	}
}

func TestRecommend_DefaultTopN(t *testing.T) {
	code, stdout, _ := run(t, seedDeps(t), "recommend", "1")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	dishes, err := alternate.Decode([]byte(stdout))
	if err != nil {
		t.Fatal(err)
	}
	if len(dishes) > 4 {
		t.Errorf("got %d dishes, want at most 4", len(dishes))
	}
}

func TestRecommend_IsolatedUserPrintsEmptyArray(t *testing.T) {
	code, stdout, _ := run(t, seedDeps(t), "recommend", "5")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if strings.TrimSpace(stdout) != "[]" {
		t.Errorf("stdout = %q, want []", stdout)
	}
}

func TestRecommend_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantType string
	}{
		{"unknown user", []string{"recommend", "99"}, ErrorTypeNotFound},
		{"non-numeric user", []string{"recommend", "abc"}, ErrorTypeInvalidRequest},
		{"zero top_n", []string{"recommend", "1", "0"}, ErrorTypeInvalidRequest},
		{"top_n over max", []string{"recommend", "1", "1000"}, ErrorTypeInvalidRequest},
		{"missing user", []string{"recommend"}, ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, seedDeps(t), tt.args...)
			if code != 1 {
				t.Fatalf("exit %d, want 1", code)
			}
			if stdout != "" {
				t.Errorf("stdout must stay empty on failure, got %q", stdout)
			}
			if e := decodeError(t, stderr); e.Type != tt.wantType || e.Error == "" {
				t.Errorf("error = %+v, want type %s", e, tt.wantType)
			}
		})
	}
}

func TestRecommend_DatasetFailure(t *testing.T) {
	deps := seedDeps(t)
	deps.OpenDataset = func(path string) (*dataset.Repo, error) {
		return nil, fmt.Errorf("%w: parse %s", domain.ErrDatasetInvalid, path)
	}

	code, _, stderr := run(t, deps, "--dataset", "broken.yaml", "recommend", "1")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	e := decodeError(t, stderr)
	if e.Type != ErrorTypeDatasetInvalid || !strings.Contains(e.Error, "broken.yaml") {
		t.Errorf("error = %+v", e)
	}
}

func TestDatasetFlag_DefaultsFromEnv(t *testing.T) {
	var gotPath string
	deps := seedDeps(t)
	deps.Getenv = func(key string) string {
		if key == DatasetEnv {
			return "/data/ratings.yaml"
		}
		return ""
	}
	deps.OpenDataset = func(path string) (*dataset.Repo, error) {
		gotPath = path
		return dataset.Seed()
	}

	if code, _, stderr := run(t, deps, "users"); code != 0 {
		t.Fatalf("exit %d, stderr %s", code, stderr)
	}
	if gotPath != "/data/ratings.yaml" {
		t.Errorf("dataset path = %q", gotPath)
	}

	if code, _, _ := run(t, deps, "users", "--dataset", "other.yaml"); code != 0 {
		t.Fatalf("exit %d", code)
	}
	if gotPath != "other.yaml" {
		t.Errorf("flag must override env, got %q", gotPath)
	}
}

func TestSimilarity_Neighbors(t *testing.T) {
	code, stdout, stderr := run(t, seedDeps(t), "similarity", "1")
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, stderr)
	}
	var got []neighborJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("neighbors = %+v, want 3", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Similarity > got[i-1].Similarity {
			t.Errorf("neighbors not sorted by similarity: %+v", got)
		}
	}
}

func TestSimilarity_Pair(t *testing.T) {
	code, stdout, _ := run(t, seedDeps(t), "similarity", "1", "2")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var got pairJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if got.Similarity <= 0 || got.Similarity > 1 {
		t.Errorf("similarity = %v, want (0,1]", got.Similarity)
	}
	if strings.Join(got.CommonRestaurants, ",") != "Dishoom,Padella" {
		t.Errorf("common = %v", got.CommonRestaurants)
	}

	code, stdout, _ = run(t, seedDeps(t), "similarity", "1", "5")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	got = pairJSON{}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if got.Similarity != 0 || got.CommonRestaurants == nil || len(got.CommonRestaurants) != 0 {
		t.Errorf("disjoint pair = %+v", got)
	}

	if code, _, stderr := run(t, seedDeps(t), "similarity", "1", "42"); code != 1 || decodeError(t, stderr).Type != ErrorTypeNotFound {
		t.Errorf("unknown other user: exit %d, stderr %s", code, stderr)
	}
}

func TestUsers(t *testing.T) {
	code, stdout, _ := run(t, seedDeps(t), "users")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var got []userJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 || got[0].Name != "Josh" || got[4].Name != "Tom" {
		t.Errorf("users = %+v", got)
	}
}

func TestVersionFlag(t *testing.T) {
	code, stdout, _ := run(t, seedDeps(t), "--version")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "test") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := run(t, seedDeps(t), "bogus")
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if e := decodeError(t, stderr); e.Type != ErrorTypeInternal {
		t.Errorf("error = %+v", e)
	}
}

func TestEngineEnv(t *testing.T) {
	got := EngineEnv("/data/ratings.yaml", 1, 4.5)
	want := []string{DatasetEnv + "=/data/ratings.yaml", NeighborsEnv + "=1", MinRatingEnv + "=4.5"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("EngineEnv = %v, want %v", got, want)
	}
	if env := EngineEnv("", 0, 0); len(env) != 0 {
		t.Errorf("zero settings must leave the child on its defaults, got %v", env)
	}
}

// A child started with EngineEnv must rank exactly like an in-process engine with the same settings.
func TestRecommend_EngineSettingsFromEnv(t *testing.T) {
	vars := map[string]string{}
	for _, kv := range EngineEnv("", 1, 4.5) {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}
	deps := seedDeps(t)
	deps.Getenv = func(key string) string { return vars[key] }

	code, stdout, stderr := run(t, deps, "recommend", "1", "4")
	if code != 0 {
		t.Fatalf("exit %d, stderr %s", code, stderr)
	}

	data, err := dataset.Seed()
	if err != nil {
		t.Fatal(err)
	}
	engine := recommend.NewEngine(recommend.WithNeighborCount(1), recommend.WithMinRating(4.5))
	svc := recommend.New(data,
		recommend.NewLocalProvider(data, engine), engine, recommend.DefaultCount, recommend.MaxCount)
	dishes, err := svc.Recommend(context.Background(), 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	var want bytes.Buffer
	if err := alternate.Encode(&want, dishes); err != nil {
		t.Fatal(err)
	}
	if stdout != want.String() {
		t.Errorf("child output differs from the configured engine:\n got %s\nwant %s", stdout, want.String())
	}

	// Flags still win over the environment.
	code, flagged, _ := run(t, deps, "--neighbors", "3", "--min-rating", "4", "recommend", "1", "4")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	_, defaults, _ := run(t, seedDeps(t), "recommend", "1", "4")
	if flagged != defaults {
		t.Errorf("flags must override env:\n got %s\nwant %s", flagged, defaults)
	}
}

func TestEngineEnv_Malformed(t *testing.T) {
	for key, val := range map[string]string{NeighborsEnv: "three", MinRatingEnv: "-1"} {
		deps := seedDeps(t)
		deps.Getenv = func(k string) string {
			if k == key {
				return val
			}
			return ""
		}
		code, _, stderr := run(t, deps, "recommend", "1")
		if code != 1 {
			t.Fatalf("%s=%s: exit %d, want 1", key, val, code)
		}
		if e := decodeError(t, stderr); e.Type != ErrorTypeInvalidRequest || !strings.Contains(e.Error, key) {
			t.Errorf("%s=%s: error = %+v", key, val, e)
		}
	}
}
