package lock

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestConcurrentBalanceSafetyProperty verifies that concurrent
// read-modify-write sequences guarded by the per-user lock never lose
// updates, no matter how many goroutines contend.
func TestConcurrentBalanceSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := snowflake(t)
		numGoroutines := rapid.IntRange(2, 20).Draw(t, "numGoroutines")
		incrementsPerGoroutine := rapid.IntRange(1, 100).Draw(t, "incrementsPerGoroutine")

		userLock := NewUserLock()
		balance := int64(0)

		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < incrementsPerGoroutine; j++ {
					userLock.Lock(userID)
					current := balance
					balance = current + 1
					userLock.Unlock(userID)
				}
			}()
		}

		wg.Wait()

		expected := int64(numGoroutines * incrementsPerGoroutine)
		assert.Equal(t, expected, balance,
			"concurrent increments should not lose updates")
	})
}

// TestWithLockFunctionProperty verifies that WithLock serializes the
// callback across goroutines for the same user.
func TestWithLockFunctionProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := snowflake(t)
		numOperations := rapid.IntRange(1, 50).Draw(t, "numOperations")

		userLock := NewUserLock()
		counter := 0
		inCritical := false

		var wg sync.WaitGroup
		wg.Add(numOperations)

		for i := 0; i < numOperations; i++ {
			go func() {
				defer wg.Done()
				err := userLock.WithLock(userID, func() error {
					assert.False(t, inCritical, "two goroutines inside the critical section")
					inCritical = true
					counter++
					inCritical = false
					return nil
				})
				assert.NoError(t, err)
			}()
		}

		wg.Wait()
		assert.Equal(t, numOperations, counter)
	})
}

// TestMultipleUsersIndependentLocksProperty verifies that locks for
// distinct users do not interfere with each other.
func TestMultipleUsersIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		incrementsPerUser := rapid.IntRange(10, 50).Draw(t, "incrementsPerUser")

		userLock := NewUserLock()
		balances := make(map[string]*int64, numUsers)
		userIDs := make([]string, numUsers)
		for i := 0; i < numUsers; i++ {
			id := strconv.Itoa(100000 + i)
			userIDs[i] = id
			var v int64
			balances[id] = &v
		}

		var wg sync.WaitGroup
		for _, id := range userIDs {
			wg.Add(1)
			go func(userID string) {
				defer wg.Done()
				for j := 0; j < incrementsPerUser; j++ {
					userLock.Lock(userID)
					*balances[userID]++
					userLock.Unlock(userID)
				}
			}(id)
		}

		wg.Wait()

		for _, id := range userIDs {
			assert.Equal(t, int64(incrementsPerUser), *balances[id],
				"user %s lost increments", id)
		}
	})
}

// TestTryLockPreventsConcurrentSessionsProperty verifies that TryLock
// admits exactly one holder at a time and that the lock is reusable
// after release.
func TestTryLockPreventsConcurrentSessionsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := snowflake(t)

		userLock := NewUserLock()

		acquired := userLock.TryLock(userID)
		assert.True(t, acquired, "first TryLock should succeed")

		contender := userLock.TryLock(userID)
		assert.False(t, contender, "second TryLock should fail while held")
		assert.True(t, userLock.IsLocked(userID))

		userLock.Unlock(userID)
		assert.False(t, userLock.IsLocked(userID))

		reacquired := userLock.TryLock(userID)
		assert.True(t, reacquired, "TryLock should succeed after release")
		userLock.Unlock(userID)
	})
}

// TestLockUnlockSymmetryProperty verifies that any sequence of balanced
// lock/unlock pairs leaves the lock free.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := snowflake(t)
		cycles := rapid.IntRange(1, 100).Draw(t, "cycles")

		userLock := NewUserLock()

		for i := 0; i < cycles; i++ {
			userLock.Lock(userID)
			assert.True(t, userLock.IsLocked(userID))
			userLock.Unlock(userID)
		}

		assert.False(t, userLock.IsLocked(userID),
			"lock should be free after balanced lock/unlock cycles")
	})
}

// snowflake draws a Discord-snowflake-like numeric string ID.
func snowflake(t *rapid.T) string {
	return strconv.FormatInt(rapid.Int64Range(1, 999999999999999999).Draw(t, "userID"), 10)
}
