package employee

import "context"

type credentialContextKey struct{}

// ContextWithCredential は呼び出し元の認証情報をコンテキストに格納します。
func ContextWithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, token)
}

// CredentialFromContext はコンテキストに格納された認証情報を返します。存在しない場合は空文字列です。
func CredentialFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(credentialContextKey{}).(string)
	return token
}
