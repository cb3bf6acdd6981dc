package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK is the success code.
var OK = &Errno{Code: 0, HTTP: http.StatusOK, GRPCCode: codes.OK, MessageEN: "success", MessageZH: "成功"}

// Common request errors.
var (
	ErrBadRequest = Register(New(MakeCode(ServiceCommon, CategoryRequest, 0),
		http.StatusBadRequest, codes.InvalidArgument, "Bad request", "请求错误"))
	ErrInvalidParam = Register(New(MakeCode(ServiceCommon, CategoryRequest, 1),
		http.StatusBadRequest, codes.InvalidArgument, "Invalid parameter", "参数无效"))
	ErrValidationFailed = Register(New(MakeCode(ServiceCommon, CategoryRequest, 2),
		http.StatusBadRequest, codes.InvalidArgument, "Validation failed", "参数校验失败"))
	ErrRequestTooLarge = Register(New(MakeCode(ServiceCommon, CategoryRequest, 3),
		http.StatusRequestEntityTooLarge, codes.InvalidArgument, "Request entity too large", "请求体过大"))
)

// Authentication and authorization errors.
var (
	ErrUnauthorized = Register(New(MakeCode(ServiceCommon, CategoryAuth, 0),
		http.StatusUnauthorized, codes.Unauthenticated, "Unauthorized", "未认证"))
	ErrInvalidToken = Register(New(MakeCode(ServiceCommon, CategoryAuth, 1),
		http.StatusUnauthorized, codes.Unauthenticated, "Invalid or expired credentials", "凭证无效或已过期"))
	ErrForbidden = Register(New(MakeCode(ServiceCommon, CategoryPermission, 0),
		http.StatusForbidden, codes.PermissionDenied, "Forbidden", "禁止访问"))
)

// Resource errors.
var (
	ErrNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 0),
		http.StatusNotFound, codes.NotFound, "Resource not found", "资源不存在"))
	ErrRouteNotFound = Register(New(MakeCode(ServiceCommon, CategoryResource, 1),
		http.StatusNotFound, codes.NotFound, "Route not found", "路由不存在"))
	ErrConflict = Register(New(MakeCode(ServiceCommon, CategoryConflict, 0),
		http.StatusConflict, codes.AlreadyExists, "Resource conflict", "资源冲突"))
)

// Server side errors.
var (
	ErrInternal = Register(New(MakeCode(ServiceCommon, CategoryInternal, 0),
		http.StatusInternalServerError, codes.Internal, "Internal server error", "服务器内部错误"))
	ErrPanic = Register(New(MakeCode(ServiceCommon, CategoryInternal, 1),
		http.StatusInternalServerError, codes.Internal, "Internal server panic", "服务器异常"))
	ErrServiceUnavailable = Register(New(MakeCode(ServiceCommon, CategoryNetwork, 0),
		http.StatusServiceUnavailable, codes.Unavailable, "Service unavailable", "服务不可用"))
	ErrTimeout = Register(New(MakeCode(ServiceCommon, CategoryTimeout, 0),
		http.StatusGatewayTimeout, codes.DeadlineExceeded, "Request timeout", "请求超时"))
	ErrDatabase = Register(New(MakeCode(ServiceInfraDB, CategoryDatabase, 0),
		http.StatusInternalServerError, codes.Internal, "Database error", "数据库错误"))
	ErrCache = Register(New(MakeCode(ServiceInfraCache, CategoryCache, 0),
		http.StatusInternalServerError, codes.Internal, "Cache error", "缓存错误"))
)
