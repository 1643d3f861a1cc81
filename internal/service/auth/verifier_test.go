package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func issue(t *testing.T, secret string, req TokenRequest) string {
	t.Helper()
	iss, err := NewIssuer(secret)
	require.NoError(t, err)
	token, err := iss.Issue(req)
	require.NoError(t, err)
	return token
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: ErrMissingToken},
		{name: "no scheme", header: "abc.def.ghi", wantErr: ErrMalformedHeader},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrMalformedHeader},
		{name: "lowercase scheme", header: "bearer abc", wantErr: ErrMalformedHeader},
		{name: "missing token", header: "Bearer ", wantErr: ErrMalformedHeader},
		{name: "extra part", header: "Bearer abc def", wantErr: ErrMalformedHeader},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBearer(tc.header)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	subject := uuid.New()
	valid := issue(t, testSecret, TokenRequest{
		Subject:  subject,
		Email:    "nurse@example.com",
		UserType: "job_seeker",
		TTL:      time.Hour,
	})

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "valid token", token: valid, secret: testSecret},
		{
			name:    "expired token",
			token:   issue(t, testSecret, TokenRequest{Subject: subject, TTL: -time.Hour}),
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{name: "wrong secret", token: valid, secret: wrongSecret, wantErr: ErrInvalidToken},
		{name: "garbage", token: "not-a-jwt", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "misconfigured", token: valid, secret: "", wantErr: ErrServerMisconfigured},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := NewVerifier(tc.secret).Verify(context.Background(), tc.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, subject, id.Subject)
			assert.Equal(t, "nurse@example.com", id.Email)
			assert.Equal(t, DefaultRole, id.Role)
			assert.Equal(t, "job_seeker", id.UserType)
			assert.Equal(t, tc.token, id.Token, "raw token is retained verbatim")
		})
	}
}

func TestVerifyRejectsNonUUIDSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewVerifier(testSecret).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyHonoursClock(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	iss, err := NewIssuer(testSecret)
	require.NoError(t, err)
	iss.timeFunc = func() time.Time { return fixed }
	token, err := iss.Issue(TokenRequest{Subject: uuid.New(), TTL: time.Hour})
	require.NoError(t, err)

	early := NewVerifier(testSecret, WithTimeFunc(func() time.Time { return fixed.Add(30 * time.Minute) }))
	id, err := early.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, fixed.Unix(), id.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), id.ExpiresAt.Unix())

	late := NewVerifier(testSecret,
		WithTimeFunc(func() time.Time { return fixed.Add(2 * time.Hour) }),
		WithClockSkew(0))
	_, err = late.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyHeader(t *testing.T) {
	v := NewVerifier(testSecret)
	token := issue(t, testSecret, TokenRequest{Subject: uuid.New(), TTL: time.Hour})

	id, err := v.VerifyHeader(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, token, id.Token)

	_, err = v.VerifyHeader(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.VerifyHeader(context.Background(), "Token "+token)
	assert.ErrorIs(t, err, ErrMalformedHeader)

	_, err = NewVerifier("").VerifyHeader(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, ErrServerMisconfigured, "misconfiguration is reported before header parsing")
}

func TestIdentityCredential(t *testing.T) {
	var nilID *Identity
	assert.True(t, nilID.Credential().Anonymous())

	subject := uuid.New()
	token := issue(t, testSecret, TokenRequest{Subject: subject, Email: "a@b.co", TTL: time.Hour})
	id, err := NewVerifier(testSecret).Verify(context.Background(), token)
	require.NoError(t, err)

	cred := id.Credential()
	assert.Equal(t, token, cred.Token)
	assert.Equal(t, subject.String(), cred.Subject)
	assert.Equal(t, DefaultRole, cred.Role)
	assert.Equal(t, subject.String(), cred.Claims["sub"])
	assert.Equal(t, "a@b.co", cred.Claims["email"])
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}
