package wm

import (
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/aios/wincore/internal/geom"
)

// MockCompositor is a gomock-style mock of the Compositor collaborator,
// for the handful of tests that want to assert the exact sequence and
// arguments of calls Space makes into it rather than just inspecting a
// recorded call log (spyCompositor in manage_test.go covers that case).
type MockCompositor struct {
	ctrl     *gomock.Controller
	recorder *MockCompositorMockRecorder
}

type MockCompositorMockRecorder struct {
	mock *MockCompositor
}

func NewMockCompositor(ctrl *gomock.Controller) *MockCompositor {
	m := &MockCompositor{ctrl: ctrl}
	m.recorder = &MockCompositorMockRecorder{m}
	return m
}

func (m *MockCompositor) EXPECT() *MockCompositorMockRecorder {
	return m.recorder
}

func (m *MockCompositor) ScheduleRepaint(id WindowID, all bool) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ScheduleRepaint", id, all)
}

func (mr *MockCompositorMockRecorder) ScheduleRepaint(id, all interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ScheduleRepaint",
		reflect.TypeOf((*MockCompositor)(nil).ScheduleRepaint), id, all)
}

func (m *MockCompositor) AddRepaint(region geom.Rect) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "AddRepaint", region)
}

func (mr *MockCompositorMockRecorder) AddRepaint(region interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddRepaint",
		reflect.TypeOf((*MockCompositor)(nil).AddRepaint), region)
}

func (m *MockCompositor) IsOverlayWindow(id WindowID) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsOverlayWindow", id)
	return ret[0].(bool)
}

func (mr *MockCompositorMockRecorder) IsOverlayWindow(id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsOverlayWindow",
		reflect.TypeOf((*MockCompositor)(nil).IsOverlayWindow), id)
}

func (m *MockCompositor) EffectsHook() bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EffectsHook")
	return ret[0].(bool)
}

func (mr *MockCompositorMockRecorder) EffectsHook() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EffectsHook",
		reflect.TypeOf((*MockCompositor)(nil).EffectsHook))
}
