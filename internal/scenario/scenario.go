// Package scenario holds the end-to-end scenarios of the photo album. Each
// scenario drives one browser session through the page objects and asserts
// on what the pages read back.
//
// Scenarios are plain functions of a [T], so the same code runs as a
// subtest under go test and under [Suite.Run] from the command line.
package scenario

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/driver"
)

// T is the part of [testing.T] the scenarios use.
type T interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
	Logf(format string, args ...any)
}

// Env is what a scenario runs against. The session belongs to the scenario
// for its whole run; the caller quits it afterwards.
type Env struct {
	Session  driver.Session
	BaseURL  string
	Login    string
	Password string
	Photos   Photos
}

// Func is the body of a scenario.
type Func func(t T, env *Env)

// Scenario is a named scenario.
type Scenario struct {
	Name string
	Run  Func
}

// All lists every scenario in the order they run.
var All = []Scenario{
	{Name: "CreateAlbum", Run: CreateAlbum},
	{Name: "RemoveAlbum", Run: RemoveAlbum},
	{Name: "RenameAlbum", Run: RenameAlbum},
	{Name: "LikeAlbum", Run: LikeAlbum},
	{Name: "CancelAlbumLike", Run: CancelAlbumLike},
	{Name: "AddPhoto", Run: AddPhoto},
	{Name: "AddPhotoWithDescription", Run: AddPhotoWithDescription},
	{Name: "LikePhoto", Run: LikePhoto},
	{Name: "CancelPhotoLike", Run: CancelPhotoLike},
	{Name: "MakePhotoAlbumCover", Run: MakePhotoAlbumCover},
}

// Lookup returns the named scenarios, case-insensitively and in the order
// given. No names selects [All].
func Lookup(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return slices.Clone(All), nil
	}
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		idx := slices.IndexFunc(All, func(s Scenario) bool {
			return strings.EqualFold(s.Name, name)
		})
		if idx < 0 {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		out = append(out, All[idx])
	}
	return out, nil
}

// timestamp renders the current time as fractional Unix seconds, which
// keeps album names unique between runs.
func timestamp() string {
	now := time.Now()
	return strconv.FormatFloat(float64(now.UnixNano())/float64(time.Second), 'f', -1, 64)
}

func defaultAlbumName() string {
	return "Test album #" + timestamp()
}

// steps are the flows shared by several scenarios. Any failure aborts the
// scenario.
type steps struct {
	t    T
	env  *Env
	must *require.Assertions
}

func newSteps(t T, env *Env) *steps {
	return &steps{t: t, env: env, must: require.New(t)}
}
