package constants

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey  ContextKey = "authorization"
	AuthorizationTypeBearer ContextKey = "bearer"
	AuthorizationUserKey    ContextKey = "authorization_user"
	AuthorizationErrorKey   ContextKey = "authorization_error"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// 使用者尚未設定地址時的預設值
const DefaultAddress = "ADDRESS_NOT_SET"

const DefaultPaymentOption = "PAYMENT_OPTION_DEFAULT"

type StoreDriver string

const (
	MongoDriver    StoreDriver = "mongo"
	PostgresDriver StoreDriver = "postgres"
	MemoryDriver   StoreDriver = "memory"
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)
