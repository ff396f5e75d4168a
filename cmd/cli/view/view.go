package view

import (
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang-module/carbon/v2"

	"github.com/Nice-2-Meet-U/runway/pkg/convention/deployment"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/pipeline"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/release"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(10)
	readyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	notStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type DescriptorView struct {
	Url      string
	Revision string
	Ready    bool
	Deployed string `json:",omitempty"`
}

type BuildView struct {
	Id    string
	Image string
	Logs  string
}

type ReceiptView struct {
	Prior      *DescriptorView `json:",omitempty"`
	Build      *BuildView      `json:",omitempty"`
	Deployment DescriptorView
}

func Descriptor(d deployment.Deployment) DescriptorView {
	v := DescriptorView{
		Url:      d.Url(),
		Revision: d.Revision(),
		Ready:    d.Ready(),
	}

	if updated := d.GetUpdateTime(); updated != nil {
		v.Deployed = carbon.CreateFromStdTime(updated.AsTime()).DiffForHumans()
	}

	return v
}

func Built(b release.Build) BuildView {
	return BuildView{
		Id:    b.GetId(),
		Image: b.Uri,
		Logs:  b.LogLocation(),
	}
}

func Receipt(r pipeline.Receipt) ReceiptView {
	v := ReceiptView{
		Deployment: Descriptor(r.Deployment),
	}

	if r.Prior != nil {
		prior := Descriptor(*r.Prior)
		v.Prior = &prior
	}

	if r.Build != nil {
		build := Built(*r.Build)
		v.Build = &build
	}

	return v
}

func (v DescriptorView) Json() (string, error) {
	j, err := json.Marshal(v)
	return string(j), err
}

func (v BuildView) Json() (string, error) {
	j, err := json.Marshal(v)
	return string(j), err
}

func (v ReceiptView) Json() (string, error) {
	j, err := json.Marshal(v)
	return string(j), err
}

func (v DescriptorView) Render() string {
	state := readyStyle.Render("ready")
	if !v.Ready {
		state = notStyle.Render("not ready")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("url") + v.Url + "\n")
	b.WriteString(labelStyle.Render("revision") + v.Revision + "\n")
	b.WriteString(labelStyle.Render("state") + state)

	if v.Deployed != "" {
		b.WriteString("\n" + labelStyle.Render("deployed") + v.Deployed)
	}

	return b.String()
}
