package memory

import (
	"testing"

	"github.com/metatime-io/vesting-server/pkg/vesting/data/claim/tests"
)

func TestClaimMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
