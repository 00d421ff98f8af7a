// Package apiconnect wires the splitogram services to Connect handlers and
// clients. Procedure names follow the Connect convention
// "/<package>.<Service>/<Method>".
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitogram/pkg/api"
)

// This is a compile-time assertion to ensure that this file and the connect
// package are compatible.
const _ = connect.IsAtLeastVersion1_13_0

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "splitogram.v1.GroupService"

// Procedure names of the GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure = "/splitogram.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/splitogram.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/splitogram.v1.GroupService/ListGroups"
	GroupServiceJoinGroupProcedure   = "/splitogram.v1.GroupService/JoinGroup"
)

// GroupServiceHandler manages groups and membership.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroupHandler := connect.NewUnaryHandler(
		GroupServiceCreateGroupProcedure,
		svc.CreateGroup,
		opts...,
	)
	getGroupHandler := connect.NewUnaryHandler(
		GroupServiceGetGroupProcedure,
		svc.GetGroup,
		opts...,
	)
	listGroupsHandler := connect.NewUnaryHandler(
		GroupServiceListGroupsProcedure,
		svc.ListGroups,
		opts...,
	)
	joinGroupHandler := connect.NewUnaryHandler(
		GroupServiceJoinGroupProcedure,
		svc.JoinGroup,
		opts...,
	)
	return "/splitogram.v1.GroupService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			joinGroupHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// GroupServiceClient is a client for the GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	JoinGroup(context.Context, *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error)
}

// NewGroupServiceClient constructs a client for the GroupService service. The
// baseURL is the server root, e.g. http://localhost:8080.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](
			httpClient,
			baseURL+GroupServiceCreateGroupProcedure,
			opts...,
		),
		getGroup: connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](
			httpClient,
			baseURL+GroupServiceGetGroupProcedure,
			opts...,
		),
		listGroups: connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](
			httpClient,
			baseURL+GroupServiceListGroupsProcedure,
			opts...,
		),
		joinGroup: connect.NewClient[api.JoinGroupRequest, api.JoinGroupResponse](
			httpClient,
			baseURL+GroupServiceJoinGroupProcedure,
			opts...,
		),
	}
}

type groupServiceClient struct {
	createGroup *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	getGroup    *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	listGroups  *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	joinGroup   *connect.Client[api.JoinGroupRequest, api.JoinGroupResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "splitogram.v1.ExpenseService"

// Procedure names of the ExpenseService RPCs.
const (
	ExpenseServiceCreateExpenseProcedure = "/splitogram.v1.ExpenseService/CreateExpense"
	ExpenseServiceListExpensesProcedure  = "/splitogram.v1.ExpenseService/ListExpenses"
)

// ExpenseServiceHandler logs and lists group expenses.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createExpenseHandler := connect.NewUnaryHandler(
		ExpenseServiceCreateExpenseProcedure,
		svc.CreateExpense,
		opts...,
	)
	listExpensesHandler := connect.NewUnaryHandler(
		ExpenseServiceListExpensesProcedure,
		svc.ListExpenses,
		opts...,
	)
	return "/splitogram.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceCreateExpenseProcedure:
			createExpenseHandler.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpensesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ExpenseServiceClient is a client for the ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
}

// NewExpenseServiceClient constructs a client for the ExpenseService service. The
// baseURL is the server root, e.g. http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &expenseServiceClient{
		createExpense: connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](
			httpClient,
			baseURL+ExpenseServiceCreateExpenseProcedure,
			opts...,
		),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient,
			baseURL+ExpenseServiceListExpensesProcedure,
			opts...,
		),
	}
}

type expenseServiceClient struct {
	createExpense *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// BalanceServiceName is the fully-qualified name of the BalanceService service.
const BalanceServiceName = "splitogram.v1.BalanceService"

// Procedure names of the BalanceService RPCs.
const (
	BalanceServiceGetBalancesProcedure  = "/splitogram.v1.BalanceService/GetBalances"
	BalanceServiceGetMyBalanceProcedure = "/splitogram.v1.BalanceService/GetMyBalance"
)

// BalanceServiceHandler reports net balances and simplified debts.
type BalanceServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMyBalance(context.Context, *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getBalancesHandler := connect.NewUnaryHandler(
		BalanceServiceGetBalancesProcedure,
		svc.GetBalances,
		opts...,
	)
	getMyBalanceHandler := connect.NewUnaryHandler(
		BalanceServiceGetMyBalanceProcedure,
		svc.GetMyBalance,
		opts...,
	)
	return "/splitogram.v1.BalanceService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BalanceServiceGetBalancesProcedure:
			getBalancesHandler.ServeHTTP(w, r)
		case BalanceServiceGetMyBalanceProcedure:
			getMyBalanceHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// BalanceServiceClient is a client for the BalanceService service.
type BalanceServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetMyBalance(context.Context, *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error)
}

// NewBalanceServiceClient constructs a client for the BalanceService service. The
// baseURL is the server root, e.g. http://localhost:8080.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &balanceServiceClient{
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient,
			baseURL+BalanceServiceGetBalancesProcedure,
			opts...,
		),
		getMyBalance: connect.NewClient[api.GetMyBalanceRequest, api.GetMyBalanceResponse](
			httpClient,
			baseURL+BalanceServiceGetMyBalanceProcedure,
			opts...,
		),
	}
}

type balanceServiceClient struct {
	getBalances  *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getMyBalance *connect.Client[api.GetMyBalanceRequest, api.GetMyBalanceResponse]
}

func (c *balanceServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetMyBalance(ctx context.Context, req *connect.Request[api.GetMyBalanceRequest]) (*connect.Response[api.GetMyBalanceResponse], error) {
	return c.getMyBalance.CallUnary(ctx, req)
}

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "splitogram.v1.SettlementService"

// Procedure names of the SettlementService RPCs.
const (
	SettlementServiceCreateSettlementsProcedure = "/splitogram.v1.SettlementService/CreateSettlements"
	SettlementServiceGetSettlementProcedure     = "/splitogram.v1.SettlementService/GetSettlement"
	SettlementServiceListSettlementsProcedure   = "/splitogram.v1.SettlementService/ListSettlements"
	SettlementServiceGetTxParamsProcedure       = "/splitogram.v1.SettlementService/GetTxParams"
	SettlementServiceVerifySettlementProcedure  = "/splitogram.v1.SettlementService/VerifySettlement"
	SettlementServiceRefreshSettlementProcedure = "/splitogram.v1.SettlementService/RefreshSettlement"
	SettlementServiceMarkExternalProcedure      = "/splitogram.v1.SettlementService/MarkExternal"
)

// SettlementServiceHandler drives settlements from derivation to confirmation.
type SettlementServiceHandler interface {
	CreateSettlements(context.Context, *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	GetTxParams(context.Context, *connect.Request[api.GetTxParamsRequest]) (*connect.Response[api.GetTxParamsResponse], error)
	VerifySettlement(context.Context, *connect.Request[api.VerifySettlementRequest]) (*connect.Response[api.VerificationResponse], error)
	RefreshSettlement(context.Context, *connect.Request[api.RefreshSettlementRequest]) (*connect.Response[api.VerificationResponse], error)
	MarkExternal(context.Context, *connect.Request[api.MarkExternalRequest]) (*connect.Response[api.MarkExternalResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createSettlementsHandler := connect.NewUnaryHandler(
		SettlementServiceCreateSettlementsProcedure,
		svc.CreateSettlements,
		opts...,
	)
	getSettlementHandler := connect.NewUnaryHandler(
		SettlementServiceGetSettlementProcedure,
		svc.GetSettlement,
		opts...,
	)
	listSettlementsHandler := connect.NewUnaryHandler(
		SettlementServiceListSettlementsProcedure,
		svc.ListSettlements,
		opts...,
	)
	getTxParamsHandler := connect.NewUnaryHandler(
		SettlementServiceGetTxParamsProcedure,
		svc.GetTxParams,
		opts...,
	)
	verifySettlementHandler := connect.NewUnaryHandler(
		SettlementServiceVerifySettlementProcedure,
		svc.VerifySettlement,
		opts...,
	)
	refreshSettlementHandler := connect.NewUnaryHandler(
		SettlementServiceRefreshSettlementProcedure,
		svc.RefreshSettlement,
		opts...,
	)
	markExternalHandler := connect.NewUnaryHandler(
		SettlementServiceMarkExternalProcedure,
		svc.MarkExternal,
		opts...,
	)
	return "/splitogram.v1.SettlementService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceCreateSettlementsProcedure:
			createSettlementsHandler.ServeHTTP(w, r)
		case SettlementServiceGetSettlementProcedure:
			getSettlementHandler.ServeHTTP(w, r)
		case SettlementServiceListSettlementsProcedure:
			listSettlementsHandler.ServeHTTP(w, r)
		case SettlementServiceGetTxParamsProcedure:
			getTxParamsHandler.ServeHTTP(w, r)
		case SettlementServiceVerifySettlementProcedure:
			verifySettlementHandler.ServeHTTP(w, r)
		case SettlementServiceRefreshSettlementProcedure:
			refreshSettlementHandler.ServeHTTP(w, r)
		case SettlementServiceMarkExternalProcedure:
			markExternalHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient is a client for the SettlementService service.
type SettlementServiceClient interface {
	CreateSettlements(context.Context, *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	GetTxParams(context.Context, *connect.Request[api.GetTxParamsRequest]) (*connect.Response[api.GetTxParamsResponse], error)
	VerifySettlement(context.Context, *connect.Request[api.VerifySettlementRequest]) (*connect.Response[api.VerificationResponse], error)
	RefreshSettlement(context.Context, *connect.Request[api.RefreshSettlementRequest]) (*connect.Response[api.VerificationResponse], error)
	MarkExternal(context.Context, *connect.Request[api.MarkExternalRequest]) (*connect.Response[api.MarkExternalResponse], error)
}

// NewSettlementServiceClient constructs a client for the SettlementService service. The
// baseURL is the server root, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		createSettlements: connect.NewClient[api.CreateSettlementsRequest, api.CreateSettlementsResponse](
			httpClient,
			baseURL+SettlementServiceCreateSettlementsProcedure,
			opts...,
		),
		getSettlement: connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](
			httpClient,
			baseURL+SettlementServiceGetSettlementProcedure,
			opts...,
		),
		listSettlements: connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](
			httpClient,
			baseURL+SettlementServiceListSettlementsProcedure,
			opts...,
		),
		getTxParams: connect.NewClient[api.GetTxParamsRequest, api.GetTxParamsResponse](
			httpClient,
			baseURL+SettlementServiceGetTxParamsProcedure,
			opts...,
		),
		verifySettlement: connect.NewClient[api.VerifySettlementRequest, api.VerificationResponse](
			httpClient,
			baseURL+SettlementServiceVerifySettlementProcedure,
			opts...,
		),
		refreshSettlement: connect.NewClient[api.RefreshSettlementRequest, api.VerificationResponse](
			httpClient,
			baseURL+SettlementServiceRefreshSettlementProcedure,
			opts...,
		),
		markExternal: connect.NewClient[api.MarkExternalRequest, api.MarkExternalResponse](
			httpClient,
			baseURL+SettlementServiceMarkExternalProcedure,
			opts...,
		),
	}
}

type settlementServiceClient struct {
	createSettlements *connect.Client[api.CreateSettlementsRequest, api.CreateSettlementsResponse]
	getSettlement     *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
	listSettlements   *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	getTxParams       *connect.Client[api.GetTxParamsRequest, api.GetTxParamsResponse]
	verifySettlement  *connect.Client[api.VerifySettlementRequest, api.VerificationResponse]
	refreshSettlement *connect.Client[api.RefreshSettlementRequest, api.VerificationResponse]
	markExternal      *connect.Client[api.MarkExternalRequest, api.MarkExternalResponse]
}

func (c *settlementServiceClient) CreateSettlements(ctx context.Context, req *connect.Request[api.CreateSettlementsRequest]) (*connect.Response[api.CreateSettlementsResponse], error) {
	return c.createSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetTxParams(ctx context.Context, req *connect.Request[api.GetTxParamsRequest]) (*connect.Response[api.GetTxParamsResponse], error) {
	return c.getTxParams.CallUnary(ctx, req)
}

func (c *settlementServiceClient) VerifySettlement(ctx context.Context, req *connect.Request[api.VerifySettlementRequest]) (*connect.Response[api.VerificationResponse], error) {
	return c.verifySettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RefreshSettlement(ctx context.Context, req *connect.Request[api.RefreshSettlementRequest]) (*connect.Response[api.VerificationResponse], error) {
	return c.refreshSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkExternal(ctx context.Context, req *connect.Request[api.MarkExternalRequest]) (*connect.Response[api.MarkExternalResponse], error) {
	return c.markExternal.CallUnary(ctx, req)
}

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "splitogram.v1.UserService"

// Procedure names of the UserService RPCs.
const (
	UserServiceSetWalletProcedure   = "/splitogram.v1.UserService/SetWallet"
	UserServiceClearWalletProcedure = "/splitogram.v1.UserService/ClearWallet"
)

// UserServiceHandler manages the caller's profile.
type UserServiceHandler interface {
	SetWallet(context.Context, *connect.Request[api.SetWalletRequest]) (*connect.Response[api.SetWalletResponse], error)
	ClearWallet(context.Context, *connect.Request[api.ClearWalletRequest]) (*connect.Response[api.ClearWalletResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	setWalletHandler := connect.NewUnaryHandler(
		UserServiceSetWalletProcedure,
		svc.SetWallet,
		opts...,
	)
	clearWalletHandler := connect.NewUnaryHandler(
		UserServiceClearWalletProcedure,
		svc.ClearWallet,
		opts...,
	)
	return "/splitogram.v1.UserService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceSetWalletProcedure:
			setWalletHandler.ServeHTTP(w, r)
		case UserServiceClearWalletProcedure:
			clearWalletHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UserServiceClient is a client for the UserService service.
type UserServiceClient interface {
	SetWallet(context.Context, *connect.Request[api.SetWalletRequest]) (*connect.Response[api.SetWalletResponse], error)
	ClearWallet(context.Context, *connect.Request[api.ClearWalletRequest]) (*connect.Response[api.ClearWalletResponse], error)
}

// NewUserServiceClient constructs a client for the UserService service. The
// baseURL is the server root, e.g. http://localhost:8080.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &userServiceClient{
		setWallet: connect.NewClient[api.SetWalletRequest, api.SetWalletResponse](
			httpClient,
			baseURL+UserServiceSetWalletProcedure,
			opts...,
		),
		clearWallet: connect.NewClient[api.ClearWalletRequest, api.ClearWalletResponse](
			httpClient,
			baseURL+UserServiceClearWalletProcedure,
			opts...,
		),
	}
}

type userServiceClient struct {
	setWallet   *connect.Client[api.SetWalletRequest, api.SetWalletResponse]
	clearWallet *connect.Client[api.ClearWalletRequest, api.ClearWalletResponse]
}

func (c *userServiceClient) SetWallet(ctx context.Context, req *connect.Request[api.SetWalletRequest]) (*connect.Response[api.SetWalletResponse], error) {
	return c.setWallet.CallUnary(ctx, req)
}

func (c *userServiceClient) ClearWallet(ctx context.Context, req *connect.Request[api.ClearWalletRequest]) (*connect.Response[api.ClearWalletResponse], error) {
	return c.clearWallet.CallUnary(ctx, req)
}
