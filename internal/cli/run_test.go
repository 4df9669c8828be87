package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crastos/labeler/pkg/errors"
	"github.com/crastos/labeler/pkg/githubapi"
	"github.com/crastos/labeler/pkg/reconcile"
)

type fakeCollaborator struct {
	files   []string
	labels  []string
	sha     string
	config  string
	fetched string // ref the config was fetched at
	applied *reconcile.Result
}

func (f *fakeCollaborator) ChangedFiles(ctx context.Context, pr githubapi.PRContext) ([]string, error) {
	return f.files, nil
}

func (f *fakeCollaborator) CurrentLabels(ctx context.Context, pr githubapi.PRContext) ([]string, error) {
	return f.labels, nil
}

func (f *fakeCollaborator) HeadSHA(ctx context.Context, pr githubapi.PRContext) (string, error) {
	return f.sha, nil
}

func (f *fakeCollaborator) FetchConfig(ctx context.Context, pr githubapi.PRContext, path, ref string) ([]byte, error) {
	f.fetched = ref
	return []byte(f.config), nil
}

func (f *fakeCollaborator) Apply(ctx context.Context, pr githubapi.PRContext, result reconcile.Result) error {
	f.applied = &result
	return nil
}

func testOptions() Options {
	return Options{
		Token:      "token",
		PR:         githubapi.PRContext{Owner: "octo", Repo: "widgets", Number: 7},
		ConfigPath: ".github/labeler.yml",
		Truncate:   TruncateCeiling,
	}
}

func TestRunAppliesPlan(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"src/app.ts"},
		labels: []string{"docs"},
		sha:    "abc123",
		config: "feature: \"src/**/*.ts\"\ndocs:\n  all: [\"*.md\"]\n",
	}

	opts := testOptions()
	opts.SyncLabels = true
	result, err := Run(context.Background(), fake, opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"feature"}, result.ToAdd)
	assert.Equal(t, []string{"docs"}, result.ToRemove)
	require.NotNil(t, fake.applied)
	assert.Equal(t, result, *fake.applied)
	assert.Equal(t, "abc123", fake.fetched, "config should be fetched at the PR head")
}

func TestRunNothingToDo(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"a.txt"},
		labels: []string{"x"},
		config: "x: \"a.txt\"\n",
	}

	result, err := Run(context.Background(), fake, testOptions())
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Nil(t, fake.applied, "an empty plan must not reach the remote")
}

func TestRunDryRunSkipsApply(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"src/app.ts"},
		config: "feature: \"src/**/*.ts\"\n",
	}

	opts := testOptions()
	opts.DryRun = true
	result, err := Run(context.Background(), fake, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature"}, result.ToAdd)
	assert.Nil(t, fake.applied)
}

func TestRunClampsTruncateToCeiling(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"src/app.ts"},
		config: "feature: \"src/**/*.ts\"\n",
	}

	opts := testOptions()
	opts.Truncate = 5000
	result, err := Run(context.Background(), fake, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature"}, result.ToAdd)
}

func TestRunSurfacesConfigError(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"src/app.ts"},
		config: "x: 5\n",
	}

	_, err := Run(context.Background(), fake, testOptions())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigFormat))
	assert.Nil(t, fake.applied, "no changes may be applied after a fatal error")
}

func TestRunSurfacesTruncationError(t *testing.T) {
	fake := &fakeCollaborator{
		files:  []string{"main.go"},
		labels: []string{"unmanaged"},
		config: "one: \"**\"\ntwo: \"**\"\nthree: \"**\"\n",
	}

	opts := testOptions()
	opts.Truncate = 2
	_, err := Run(context.Background(), fake, opts)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTruncationExceeded))
	assert.Nil(t, fake.applied)
}
