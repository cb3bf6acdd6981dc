package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// DocVault request errors.
var (
	ErrInvalidFileType = Register(New(MakeCode(ServiceDocVault, CategoryRequest, 1),
		http.StatusBadRequest, codes.InvalidArgument, "Only PDF files are accepted", "仅支持 PDF 文件"))
	ErrInvalidDocumentID = Register(New(MakeCode(ServiceDocVault, CategoryRequest, 2),
		http.StatusBadRequest, codes.InvalidArgument, "Invalid document id", "文档 ID 无效"))
	ErrInvalidConversationID = Register(New(MakeCode(ServiceDocVault, CategoryRequest, 3),
		http.StatusBadRequest, codes.InvalidArgument, "Invalid conversation id", "会话 ID 无效"))
	ErrEmptyMessage = Register(New(MakeCode(ServiceDocVault, CategoryRequest, 4),
		http.StatusBadRequest, codes.InvalidArgument, "Message must not be empty", "消息不能为空"))
	ErrFileTooLarge = Register(New(MakeCode(ServiceDocVault, CategoryRequest, 5),
		http.StatusRequestEntityTooLarge, codes.InvalidArgument, "Uploaded file is too large", "上传文件过大"))
)

// DocVault resource errors.
var (
	ErrDocumentNotFound = Register(New(MakeCode(ServiceDocVault, CategoryResource, 1),
		http.StatusNotFound, codes.NotFound, "Document not found", "文档不存在"))
	ErrConversationNotFound = Register(New(MakeCode(ServiceDocVault, CategoryResource, 2),
		http.StatusNotFound, codes.NotFound, "Conversation not found or access denied", "会话不存在或无权访问"))
	ErrUserNotFound = Register(New(MakeCode(ServiceDocVault, CategoryResource, 3),
		http.StatusNotFound, codes.NotFound, "User not found", "用户不存在"))
)

// DocVault processing errors.
var (
	ErrChatGenerationFailed = Register(New(MakeCode(ServiceDocVault, CategoryInternal, 1),
		http.StatusInternalServerError, codes.Internal, "Failed to generate a reply", "生成回复失败"))
	ErrIngestionFailed = Register(New(MakeCode(ServiceDocVault, CategoryInternal, 2),
		http.StatusInternalServerError, codes.Internal, "Document ingestion failed", "文档处理失败"))
	ErrVectorIndex = Register(New(MakeCode(ServiceDocVault, CategoryInternal, 3),
		http.StatusInternalServerError, codes.Internal, "Vector index error", "向量索引错误"))
	ErrStorage = Register(New(MakeCode(ServiceInfraStorage, CategoryInternal, 0),
		http.StatusInternalServerError, codes.Internal, "File storage error", "文件存储错误"))
	ErrLLMProvider = Register(New(MakeCode(ServiceThirdPartyLLM, CategoryNetwork, 0),
		http.StatusBadGateway, codes.Unavailable, "Language model provider error", "大模型服务错误"))
)
