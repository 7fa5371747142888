package models

import (
	"fmt"
	"strings"
)

// StackType is a technology tag on a recruit board.
type StackType string

const (
	StackJava       StackType = "JAVA"
	StackSpring     StackType = "SPRING"
	StackKotlin     StackType = "KOTLIN"
	StackJavaScript StackType = "JAVASCRIPT"
	StackTypeScript StackType = "TYPESCRIPT"
	StackReact      StackType = "REACT"
	StackVue        StackType = "VUE"
	StackNode       StackType = "NODE"
	StackGo         StackType = "GO"
	StackPython     StackType = "PYTHON"
	StackDjango     StackType = "DJANGO"
	StackSwift      StackType = "SWIFT"
	StackFlutter    StackType = "FLUTTER"
	StackAWS        StackType = "AWS"
	StackDocker     StackType = "DOCKER"
	StackFigma      StackType = "FIGMA"
)

var stackTypes = map[StackType]struct{}{
	StackJava: {}, StackSpring: {}, StackKotlin: {}, StackJavaScript: {},
	StackTypeScript: {}, StackReact: {}, StackVue: {}, StackNode: {},
	StackGo: {}, StackPython: {}, StackDjango: {}, StackSwift: {},
	StackFlutter: {}, StackAWS: {}, StackDocker: {}, StackFigma: {},
}

// ParseStackType normalizes s and rejects unknown tags.
func ParseStackType(s string) (StackType, error) {
	t := StackType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := stackTypes[t]; !ok {
		return "", NewValidationError(fmt.Sprintf("unknown stack type %q", s))
	}
	return t, nil
}

// PositionType is a role a recruit board is hiring for.
type PositionType string

const (
	PositionFrontend  PositionType = "FRONTEND"
	PositionBackend   PositionType = "BACKEND"
	PositionDesigner  PositionType = "DESIGNER"
	PositionDevOps    PositionType = "DEVOPS"
	PositionMarketer  PositionType = "MARKETER"
	PositionPM        PositionType = "PM"
	PositionAppMobile PositionType = "APP"
)

// ParsePositionType normalizes s and rejects unknown positions.
func ParsePositionType(s string) (PositionType, error) {
	t := PositionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case PositionFrontend, PositionBackend, PositionDesigner, PositionDevOps,
		PositionMarketer, PositionPM, PositionAppMobile:
		return t, nil
	}
	return "", NewValidationError(fmt.Sprintf("unknown position type %q", s))
}

// BoardStack tags a recruit board with one stack type.
type BoardStack struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RecruitBoardID uint      `gorm:"not null;uniqueIndex:idx_board_stacks_board_type" json:"recruit_board_id"`
	StackType      StackType `gorm:"type:varchar(32);not null;uniqueIndex:idx_board_stacks_board_type;index" json:"stack_type"`
}

// BoardPosition is an open position on a recruit board.
type BoardPosition struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	RecruitBoardID uint         `gorm:"not null;index" json:"recruit_board_id"`
	PositionType   PositionType `gorm:"type:varchar(32);not null" json:"position_type"`
	TargetNumber   int          `gorm:"not null;default:1" json:"target_number"`
	CurrentNumber  int          `gorm:"not null;default:0" json:"current_number"`
}
