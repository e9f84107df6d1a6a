package ratelimit

import "testing"

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(1, 2)
	defer krl.Stop()

	if !krl.Allow("10.0.0.1") {
		t.Error("first request should be allowed")
	}
	if !krl.Allow("10.0.0.1") {
		t.Error("second request should be allowed within burst")
	}
	if krl.Allow("10.0.0.1") {
		t.Error("third request should exceed burst")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("10.0.0.1") {
		t.Error("first key should be allowed")
	}
	if !krl.Allow("10.0.0.2") {
		t.Error("second key should have its own bucket")
	}
}

func TestStop_Idempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	krl.Stop()
}
