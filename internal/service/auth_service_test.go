package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/greymaverick/PKP-app/config"
	"github.com/greymaverick/PKP-app/internal/dto"
	"github.com/greymaverick/PKP-app/pkg/jwt"
)

// ── 测试辅助 ──

const employeeTestCSV = "No,NIP,Nama Lengkap,Email Dinas\n" +
	"1,199003152015031001,Budi Santoso,budi.santoso@bpk.go.id\n" +
	"2,198805202012122002,Citra Dewi,citra.dewi@bpk.go.id\n"

func setupTestAuthService(employeeCSVURL string) AuthService {
	authCfg := &config.AuthConfig{
		JWTSecret:       "test-secret-key-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		EmailDomain:     "@bpk.go.id",
	}
	sheetCfg := &config.SheetConfig{
		EmployeeCSVURL: employeeCSVURL,
		FetchTimeout:   5 * time.Second,
		MaxFetchBytes:  1 << 20,
	}
	jwtMgr := jwt.NewManager(authCfg)
	return NewAuthService(jwtMgr, nil, authCfg, sheetCfg, zap.NewNop())
}

func newEmployeeSheetServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(employeeTestCSV))
	}))
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "budi.santoso",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应签发完整 Token 对")
	}
	if result.User.Name != "Budi Santoso" {
		t.Errorf("期望User.Name=Budi Santoso，实际=%s", result.User.Name)
	}
	if result.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestAuthService_Login_CaseInsensitiveUsername(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "Budi.Santoso",
	})
	if err != nil {
		t.Fatalf("用户名大小写不应影响登录: %v", err)
	}
}

func TestAuthService_Login_WrongEmail(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "citra.dewi", // NIP 与邮箱属于不同员工
	})
	if !errors.Is(err, ErrLoginInvalid) {
		t.Errorf("期望 ErrLoginInvalid，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownNIP(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "000000000000000000",
		Username: "budi.santoso",
	})
	if !errors.Is(err, ErrLoginInvalid) {
		t.Errorf("期望 ErrLoginInvalid，实际: %v", err)
	}
}

func TestAuthService_Login_SheetUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "budi.santoso",
	})
	if !errors.Is(err, ErrEmployeeSheetDown) {
		t.Errorf("期望 ErrEmployeeSheetDown，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "budi.santoso",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.User.NIP != "199003152015031001" {
		t.Errorf("换发后应保持登录主体，实际=%s", refreshed.User.NIP)
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		NIP:      "199003152015031001",
		Username: "budi.santoso",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// 用 access token 冒充 refresh token 应被拒绝
	if _, err := svc.RefreshToken(context.Background(), login.AccessToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Garbage(t *testing.T) {
	svc := setupTestAuthService("")

	if _, err := svc.RefreshToken(context.Background(), "not-a-token"); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

// ── ListEmployees 测试 ──

func TestAuthService_ListEmployees_ColumnDetection(t *testing.T) {
	server := newEmployeeSheetServer()
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	employees, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees 应成功: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("期望2名员工，实际=%d", len(employees))
	}
	// 表头带干扰列（No），列位置须按名称探测
	if employees[0].NIP != "199003152015031001" {
		t.Errorf("NIP列探测错误，实际=%s", employees[0].NIP)
	}
	if employees[0].Name != "Budi Santoso" {
		t.Errorf("Nama列探测错误，实际=%s", employees[0].Name)
	}
	if employees[0].Email != "budi.santoso@bpk.go.id" {
		t.Errorf("Email列探测错误，实际=%s", employees[0].Email)
	}
}

func TestAuthService_ListEmployees_UsernameColumnIgnored(t *testing.T) {
	// "Username" 只含 name 子串、不是整词，不得抢占 Nama 列
	csv := "Username,NIP,Nama,Email\n" +
		"budi.santoso,199003152015031001,Budi Santoso,budi.santoso@bpk.go.id\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(csv))
	}))
	defer server.Close()
	svc := setupTestAuthService(server.URL)

	employees, err := svc.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("ListEmployees 应成功: %v", err)
	}
	if len(employees) != 1 {
		t.Fatalf("期望1名员工，实际=%d", len(employees))
	}
	if employees[0].Name != "Budi Santoso" {
		t.Errorf("Nama列被Username抢占，实际=%s", employees[0].Name)
	}
	if employees[0].NIP != "199003152015031001" {
		t.Errorf("NIP列探测错误，实际=%s", employees[0].NIP)
	}
}

func TestDetectEmployeeColumns_HyphenatedEmailHeader(t *testing.T) {
	nipCol, nameCol, emailCol := detectEmployeeColumns([]string{"NIP", "Nama Lengkap", "E-mail"})
	if nipCol != 0 || nameCol != 1 || emailCol != 2 {
		t.Errorf("E-mail 表头应命中邮箱列: nip=%d nama=%d email=%d", nipCol, nameCol, emailCol)
	}
}

// ── Logout 测试 ──

func TestAuthService_Logout_NilRedisDegrades(t *testing.T) {
	svc := setupTestAuthService("")

	claims := &jwt.Claims{NIP: "199003152015031001"}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Errorf("Redis 缺席时登出应降级为无操作: %v", err)
	}
}
