package cache

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

var testKey = Key{SourceLang: "en", TargetLang: "hi", Text: "hello"}

func TestRedisCache_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectGet("test:" + testKey.Digest()).SetVal("नमस्ते")

	val, ok := cache.Get(testKey)
	if !ok {
		t.Error("Expected cache hit")
	}
	if val != "नमस्ते" {
		t.Errorf("Expected 'नमस्ते', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectGet("test:" + testKey.Digest()).RedisNil()

	val, ok := cache.Get(testKey)
	if ok {
		t.Error("Expected cache miss")
	}
	if val != "" {
		t.Errorf("Expected empty string, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Get_ErrorIsMiss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	var logs bytes.Buffer
	cache.logger = slog.New(slog.NewTextHandler(&logs, nil))

	mock.ExpectGet("test:" + testKey.Digest()).SetErr(errors.New("connection reset"))

	if _, ok := cache.Get(testKey); ok {
		t.Error("Redis errors should read as a miss")
	}
	if !strings.Contains(logs.String(), "redis read failed") || !strings.Contains(logs.String(), "connection reset") {
		t.Errorf("read error should be logged, got %q", logs.String())
	}
}

func TestRedisCache_Get_MissIsNotLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")
	var logs bytes.Buffer
	cache.logger = slog.New(slog.NewTextHandler(&logs, nil))

	mock.ExpectGet("test:" + testKey.Digest()).RedisNil()

	cache.Get(testKey)
	if logs.Len() != 0 {
		t.Errorf("a plain miss should not be logged, got %q", logs.String())
	}
}

func TestRedisCache_Put_UsesSetNX(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, time.Hour, "test:")

	mock.ExpectSetNX("test:"+testKey.Digest(), "नमस्ते", time.Hour).SetVal(true)

	if err := cache.Put(testKey, "नमस्ते"); err != nil {
		t.Errorf("Put failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Put_ExistingKeyIsNotAnError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectSetNX("test:"+testKey.Digest(), "other", 0).SetVal(false)

	if err := cache.Put(testKey, "other"); err != nil {
		t.Errorf("Put on existing key should not fail: %v", err)
	}
}

func TestRedisCache_Put_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectSetNX("test:"+testKey.Digest(), "x", 0).SetErr(errors.New("READONLY"))

	err := cache.Put(testKey, "x")
	var cacheErr *Error
	if !errors.As(err, &cacheErr) {
		t.Fatalf("Expected *Error, got %T (%v)", err, err)
	}
}

func TestRedisCache_Has(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	mock.ExpectExists("test:" + testKey.Digest()).SetVal(1)
	if !cache.Has(testKey) {
		t.Error("Expected Has to be true")
	}

	mock.ExpectExists("test:" + testKey.Digest()).SetVal(0)
	if cache.Has(testKey) {
		t.Error("Expected Has to be false")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	cache := NewRedisCacheFromClient(db, 0, "")

	mock.ExpectGet(DefaultKeyPrefix + testKey.Digest()).SetVal("translated")

	val, ok := cache.Get(testKey)
	if !ok || val != "translated" {
		t.Errorf("Expected 'translated', got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisCache_Close(t *testing.T) {
	db, _ := redismock.NewClientMock()

	cache := NewRedisCacheFromClient(db, 0, "test:")

	if err := cache.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
