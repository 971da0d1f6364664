// Package mockrtos holds a gomock-generated-style mock of rtos.Provider,
// used where a test needs to assert the exact sequence of SVC dispatch
// calls rather than just their externally observable effect (spec.md §4.A
// "SVCCall... as if dispatched through a supervisor call"; simrtos.Provider
// covers the functional behavior, this covers the call-ordering contract).
// Written by hand in the shape `mockgen -source=rtos/provider.go` would
// produce, since the interface is small and stable enough that running the
// generator would add a build step for no benefit over committing its
// output directly.
package mockrtos

import (
	"reflect"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/weos-rt/weos/rtos"
)

// MockProvider is a mock of rtos.Provider.
type MockProvider struct {
	ctrl     *gomock.Controller
	recorder *MockProviderMockRecorder
}

// MockProviderMockRecorder is the mock recorder for MockProvider.
type MockProviderMockRecorder struct {
	mock *MockProvider
}

// NewMockProvider returns a new mock instance.
func NewMockProvider(ctrl *gomock.Controller) *MockProvider {
	m := &MockProvider{ctrl: ctrl}
	m.recorder = &MockProviderMockRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProvider) EXPECT() *MockProviderMockRecorder {
	return m.recorder
}

func (m *MockProvider) TaskCreate(entry func(arg any), stackBase []byte, priority rtos.Priority, arg any) (rtos.TaskID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskCreate", entry, stackBase, priority, arg)
	id, _ := ret[0].(rtos.TaskID)
	err, _ := ret[1].(error)
	return id, err
}

func (mr *MockProviderMockRecorder) TaskCreate(entry, stackBase, priority, arg any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskCreate", reflect.TypeOf((*MockProvider)(nil).TaskCreate), entry, stackBase, priority, arg)
}

func (m *MockProvider) TaskTerminate(id rtos.TaskID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskTerminate", id)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockProviderMockRecorder) TaskTerminate(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskTerminate", reflect.TypeOf((*MockProvider)(nil).TaskTerminate), id)
}

func (m *MockProvider) TaskYield() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "TaskYield")
}

func (mr *MockProviderMockRecorder) TaskYield() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskYield", reflect.TypeOf((*MockProvider)(nil).TaskYield))
}

func (m *MockProvider) TaskCurrent() rtos.TaskID {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskCurrent")
	id, _ := ret[0].(rtos.TaskID)
	return id
}

func (mr *MockProviderMockRecorder) TaskCurrent() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskCurrent", reflect.TypeOf((*MockProvider)(nil).TaskCurrent))
}

func (m *MockProvider) TaskPriority(id rtos.TaskID) (rtos.Priority, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TaskPriority", id)
	p, _ := ret[0].(rtos.Priority)
	err, _ := ret[1].(error)
	return p, err
}

func (mr *MockProviderMockRecorder) TaskPriority(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskPriority", reflect.TypeOf((*MockProvider)(nil).TaskPriority), id)
}

func (m *MockProvider) TaskDelay(ticks uint32) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "TaskDelay", ticks)
}

func (mr *MockProviderMockRecorder) TaskDelay(ticks any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TaskDelay", reflect.TypeOf((*MockProvider)(nil).TaskDelay), ticks)
}

func (m *MockProvider) MutexCreate() (rtos.MutexID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MutexCreate")
	id, _ := ret[0].(rtos.MutexID)
	err, _ := ret[1].(error)
	return id, err
}

func (mr *MockProviderMockRecorder) MutexCreate() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MutexCreate", reflect.TypeOf((*MockProvider)(nil).MutexCreate))
}

func (m *MockProvider) MutexDestroy(id rtos.MutexID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MutexDestroy", id)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockProviderMockRecorder) MutexDestroy(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MutexDestroy", reflect.TypeOf((*MockProvider)(nil).MutexDestroy), id)
}

func (m *MockProvider) MutexWait(id rtos.MutexID, timeoutTicks uint32) rtos.WaitResult {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MutexWait", id, timeoutTicks)
	r, _ := ret[0].(rtos.WaitResult)
	return r
}

func (mr *MockProviderMockRecorder) MutexWait(id, timeoutTicks any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MutexWait", reflect.TypeOf((*MockProvider)(nil).MutexWait), id, timeoutTicks)
}

func (m *MockProvider) MutexRelease(id rtos.MutexID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MutexRelease", id)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockProviderMockRecorder) MutexRelease(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MutexRelease", reflect.TypeOf((*MockProvider)(nil).MutexRelease), id)
}

func (m *MockProvider) SemaphoreCreate(initial int32) (rtos.SemaphoreID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SemaphoreCreate", initial)
	id, _ := ret[0].(rtos.SemaphoreID)
	err, _ := ret[1].(error)
	return id, err
}

func (mr *MockProviderMockRecorder) SemaphoreCreate(initial any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SemaphoreCreate", reflect.TypeOf((*MockProvider)(nil).SemaphoreCreate), initial)
}

func (m *MockProvider) SemaphoreDestroy(id rtos.SemaphoreID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SemaphoreDestroy", id)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockProviderMockRecorder) SemaphoreDestroy(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SemaphoreDestroy", reflect.TypeOf((*MockProvider)(nil).SemaphoreDestroy), id)
}

func (m *MockProvider) SemaphoreWait(id rtos.SemaphoreID, timeoutTicks uint32) rtos.WaitResult {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SemaphoreWait", id, timeoutTicks)
	r, _ := ret[0].(rtos.WaitResult)
	return r
}

func (mr *MockProviderMockRecorder) SemaphoreWait(id, timeoutTicks any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SemaphoreWait", reflect.TypeOf((*MockProvider)(nil).SemaphoreWait), id, timeoutTicks)
}

func (m *MockProvider) SemaphoreRelease(id rtos.SemaphoreID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SemaphoreRelease", id)
	err, _ := ret[0].(error)
	return err
}

func (mr *MockProviderMockRecorder) SemaphoreRelease(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SemaphoreRelease", reflect.TypeOf((*MockProvider)(nil).SemaphoreRelease), id)
}

func (m *MockProvider) SemaphoreValue(id rtos.SemaphoreID) int32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SemaphoreValue", id)
	v, _ := ret[0].(int32)
	return v
}

func (mr *MockProviderMockRecorder) SemaphoreValue(id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SemaphoreValue", reflect.TypeOf((*MockProvider)(nil).SemaphoreValue), id)
}

func (m *MockProvider) SignalSet(task rtos.TaskID, mask uint16) (uint16, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SignalSet", task, mask)
	prev, _ := ret[0].(uint16)
	err, _ := ret[1].(error)
	return prev, err
}

func (mr *MockProviderMockRecorder) SignalSet(task, mask any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SignalSet", reflect.TypeOf((*MockProvider)(nil).SignalSet), task, mask)
}

func (m *MockProvider) SignalClear(task rtos.TaskID, mask uint16) (uint16, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SignalClear", task, mask)
	prev, _ := ret[0].(uint16)
	err, _ := ret[1].(error)
	return prev, err
}

func (mr *MockProviderMockRecorder) SignalClear(task, mask any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SignalClear", reflect.TypeOf((*MockProvider)(nil).SignalClear), task, mask)
}

func (m *MockProvider) SignalWait(mask uint16, timeoutTicks uint32) (uint16, rtos.WaitResult) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SignalWait", mask, timeoutTicks)
	observed, _ := ret[0].(uint16)
	r, _ := ret[1].(rtos.WaitResult)
	return observed, r
}

func (mr *MockProviderMockRecorder) SignalWait(mask, timeoutTicks any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SignalWait", reflect.TypeOf((*MockProvider)(nil).SignalWait), mask, timeoutTicks)
}

func (m *MockProvider) SystickValue() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SystickValue")
	v, _ := ret[0].(uint32)
	return v
}

func (mr *MockProviderMockRecorder) SystickValue() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SystickValue", reflect.TypeOf((*MockProvider)(nil).SystickValue))
}

func (m *MockProvider) SystickOverflowPending() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SystickOverflowPending")
	v, _ := ret[0].(bool)
	return v
}

func (mr *MockProviderMockRecorder) SystickOverflowPending() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SystickOverflowPending", reflect.TypeOf((*MockProvider)(nil).SystickOverflowPending))
}

func (m *MockProvider) CoarseTick() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CoarseTick")
	v, _ := ret[0].(uint32)
	return v
}

func (mr *MockProviderMockRecorder) CoarseTick() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CoarseTick", reflect.TypeOf((*MockProvider)(nil).CoarseTick))
}

func (m *MockProvider) SystickReload() uint32 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SystickReload")
	v, _ := ret[0].(uint32)
	return v
}

func (mr *MockProviderMockRecorder) SystickReload() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SystickReload", reflect.TypeOf((*MockProvider)(nil).SystickReload))
}

func (m *MockProvider) TickPeriod() time.Duration {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TickPeriod")
	v, _ := ret[0].(time.Duration)
	return v
}

func (mr *MockProviderMockRecorder) TickPeriod() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TickPeriod", reflect.TypeOf((*MockProvider)(nil).TickPeriod))
}

func (m *MockProvider) InInterrupt() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InInterrupt")
	v, _ := ret[0].(bool)
	return v
}

func (mr *MockProviderMockRecorder) InInterrupt() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InInterrupt", reflect.TypeOf((*MockProvider)(nil).InInterrupt))
}

func (m *MockProvider) SVCCall(fn func()) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SVCCall", fn)
}

func (mr *MockProviderMockRecorder) SVCCall(fn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SVCCall", reflect.TypeOf((*MockProvider)(nil).SVCCall), fn)
}

func (m *MockProvider) Now() time.Time {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Now")
	v, _ := ret[0].(time.Time)
	return v
}

func (mr *MockProviderMockRecorder) Now() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Now", reflect.TypeOf((*MockProvider)(nil).Now))
}

var _ rtos.Provider = (*MockProvider)(nil)
