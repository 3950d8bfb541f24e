package prompt

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/rules"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	multiIdx     [][]int
	textAreas    []string
	infoMessages []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	multiPos     int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

const questionForm = `<form id="q">
  <input type="hidden" name="csrfmiddlewaretoken" value="t">
  <label for="id_question_text">Question</label>
  <textarea id="id_question_text" name="question_text"></textarea>
  <select name="difficulty"><option value="">--</option><option value="E">Easy</option><option value="H">Hard</option></select>
  <select name="topics" multiple><option value="math">Math</option><option value="art">Art</option></select>
  <input type="radio" id="g_ma" name="gender" value="MA"><label for="g_ma">Male</label>
  <input type="radio" id="g_fe" name="gender" value="FE"><label for="g_fe">Female</label>
  <input type="password" name="password">
  <input type="checkbox" name="confirm_deletion" value="true">
  <button type="submit">Save</button>
</form>`

func TestFieldsFromForm(t *testing.T) {
	doc, err := dom.ParseString(questionForm)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := FieldsFromForm(doc.Query("#q"))
	want := []Field{
		{Name: "question_text", Label: "Question", Kind: KindTextArea},
		{Name: "difficulty", Kind: KindSelect, Choices: []Choice{{Value: "", Label: "--"}, {Value: "E", Label: "Easy"}, {Value: "H", Label: "Hard"}}},
		{Name: "topics", Kind: KindMultiSelect, Choices: []Choice{{Value: "math", Label: "Math"}, {Value: "art", Label: "Art"}}},
		{Name: "gender", Kind: KindSelect, Choices: []Choice{{Value: "MA", Label: "Male"}, {Value: "FE", Label: "Female"}}},
		{Name: "password", Kind: KindPassword},
		{Name: "confirm_deletion", Kind: KindConfirm, Default: "true"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_RepromptsUntilValid(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"abc def", "ada"},
		passwords: []string{"abcdefgh", "Abcdefg1!", "Abcdefg1!"},
	}
	f := New(WithPromptDriver(driver))

	fields := []Field{
		{Name: "username", Kind: KindText},
		{Name: "password", Kind: KindPassword},
		{Name: "password2", Kind: KindPassword},
	}
	values, err := f.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := url.Values{
		"username":  {"ada"},
		"password":  {"Abcdefg1!"},
		"password2": {"Abcdefg1!"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantInfo := []string{"✗ " + rules.MsgUsernamePattern, "✗ " + rules.MsgPasswordUppercase}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_SelectsAndConfirm(t *testing.T) {
	driver := &stubDriver{
		selectIdx: []int{2},
		multiIdx:  [][]int{{}, {0, 1}},
		confirm:   []bool{true},
	}
	f := New(WithPromptDriver(driver))
	fields := []Field{
		{Name: "difficulty", Kind: KindSelect, Choices: []Choice{{Value: ""}, {Value: "E"}, {Value: "H"}}},
		{Name: "topics", Kind: KindMultiSelect, Choices: []Choice{{Value: "math"}, {Value: "art"}}},
		{Name: "confirm_deletion", Kind: KindConfirm, Default: "true"},
	}
	values, err := f.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := url.Values{
		"difficulty":       {"H"},
		"topics":           {"math", "art"},
		"confirm_deletion": {"true"},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], rules.MsgTopicsRequired) {
		t.Fatalf("expected one topics message, got %v", driver.infoMessages)
	}
}

func TestFill_TooManyAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "", ""}}
	f := New(WithPromptDriver(driver), WithMaxAttempts(2))

	_, err := f.Fill(context.Background(), []Field{{Name: "first_name"}})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected two attempts, got %d", driver.inputPos)
	}
}

func TestEncode(t *testing.T) {
	values := url.Values{"username": {"ada"}, "password": {"Abcdefg1!"}}

	pretty, err := Encode(values, OutputFormatPrettyText, "password")
	if err != nil {
		t.Fatalf("encode pretty: %v", err)
	}
	if string(pretty) != "password: ********\nusername: ada\n" {
		t.Fatalf("unexpected pretty output %q", pretty)
	}

	form, err := Encode(values, OutputFormatFormURLEncoded)
	if err != nil {
		t.Fatalf("encode form: %v", err)
	}
	if string(form) != "password=Abcdefg1%21&username=ada" {
		t.Fatalf("unexpected form output %q", form)
	}

	if _, err := Encode(values, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
