package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"campus-events/internal/middleware"
	"campus-events/internal/model"

	"github.com/gin-gonic/gin"
)

var (
	InvalidJSON = `{"invalid": json}`

	student   = &model.User{ID: "stu-1", Name: "Ada", Email: "ada@example.edu", Role: model.RoleStudent}
	organizer = &model.User{ID: "org-1", Name: "Grace", Email: "grace@example.edu", Role: model.RoleOrganizer}
)

type routes interface {
	RegisterRoutes(r *gin.Engine)
}

// newRouter 以指定使用者 (nil 代表匿名) 建立測試 router
func newRouter(user *model.User, handlers ...routes) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if user != nil {
		router.Use(middleware.FixedUser(user))
	}
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// streamRecorder 讓 gin 的 Stream 可以在 httptest 下運作
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}
