package api

import "time"

// Streaming message types published by gatherers while a run is in progress.
const (
	MsgTypeStartedRun       = "started_run"
	MsgTypeStartedScenario  = "started_scenario"
	MsgTypeFinishedScenario = "finished_scenario"
	MsgTypeHostCheck        = "host_check"
	MsgTypeFatal            = "fatal"
	MsgTypeFinishedRun      = "finished_run"
)

type Header struct {
	RunUuid string `json:"run_uuid"`
	MsgType string `json:"msg_type"`
}

type StartedRun struct {
	Header
	SystemInfo string `json:"system_info"`
	StartedAt  string `json:"started_at"`
}

func NewStartedRun(runUuid string, systemInfo string) StartedRun {
	return StartedRun{
		Header:     Header{RunUuid: runUuid, MsgType: MsgTypeStartedRun},
		SystemInfo: systemInfo,
		StartedAt:  time.Now().Format(time.RFC3339),
	}
}

type StartedScenario struct {
	Header
	Name     string `json:"name"`
	Expected string `json:"expected"`
}

func NewStartedScenario(runUuid string, name string, expected string) StartedScenario {
	return StartedScenario{
		Header:   Header{RunUuid: runUuid, MsgType: MsgTypeStartedScenario},
		Name:     name,
		Expected: expected,
	}
}

type FinishedScenario struct {
	Header
	Result ScenarioResult `json:"result"`
}

func NewFinishedScenario(runUuid string, result ScenarioResult) FinishedScenario {
	return FinishedScenario{
		Header: Header{RunUuid: runUuid, MsgType: MsgTypeFinishedScenario},
		Result: result,
	}
}

type HostCheck struct {
	Header
	Alive  bool  `json:"alive"`
	Millis int64 `json:"millis"`
}

func NewHostCheck(runUuid string, alive bool, millis int64) HostCheck {
	return HostCheck{
		Header: Header{RunUuid: runUuid, MsgType: MsgTypeHostCheck},
		Alive:  alive,
		Millis: millis,
	}
}

type Fatal struct {
	Header
	Message string `json:"message"`
}

func NewFatal(runUuid string, message string) Fatal {
	return Fatal{
		Header:  Header{RunUuid: runUuid, MsgType: MsgTypeFatal},
		Message: message,
	}
}

type FinishedRun struct {
	Header
	Ok bool `json:"ok"`
}

func NewFinishedRun(runUuid string, ok bool) FinishedRun {
	return FinishedRun{
		Header: Header{RunUuid: runUuid, MsgType: MsgTypeFinishedRun},
		Ok:     ok,
	}
}
