package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/routerdock/internal/device"
	"github.com/nerrad567/routerdock/internal/web"
)

// The browser UI works in fragments: the index shell is rendered once
// and every action afterwards swaps either the device list or the
// device detail into it. Failures render as banners inside the
// returned fragment, so the page never navigates away.

// renderHTML executes a render func into a buffer and commits it with
// the given status. Buffering keeps a failed template execution from
// leaking a half-written fragment to the client.
func (s *Server) renderHTML(w http.ResponseWriter, status int, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		s.logger.Error("failed to render page", "error", err)
		writeInternalError(w, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	buf.WriteTo(w)
}

// handleIndexPage renders the full page shell with the current device
// list inlined.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	data := web.IndexData{Version: s.version}

	records, err := s.service.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("failed to list devices for index", "error", err)
		data.List.Error = "Could not load registered devices."
	} else {
		data.List.Devices = records
	}

	s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
		return s.renderer.Index(out, data)
	})
}

// handleDeviceListPage renders the device list fragment.
func (s *Server) handleDeviceListPage(w http.ResponseWriter, r *http.Request) {
	s.renderDeviceList(w, r, "", "")
}

// handleRegisterDevicePage registers a router from the submitted form
// and renders the refreshed list. Any failure renders the same
// fragment with the error as a banner.
func (s *Server) handleRegisterDevicePage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderDeviceList(w, r, "", "Invalid form submission.")
		return
	}

	port := 0
	if raw := r.PostFormValue("port"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.renderDeviceList(w, r, "", "Port must be a number.")
			return
		}
		port = parsed
	}

	_, err := s.service.RegisterDevice(r.Context(),
		r.PostFormValue("ip_address"),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		port,
	)
	if err != nil {
		s.renderDeviceList(w, r, "", err.Error())
		return
	}

	s.renderDeviceList(w, r, "Device registered.", "")
}

// handleDeviceDetailPage renders the detail fragment for one router.
// Unknown IDs render the missing-device variant.
func (s *Server) handleDeviceDetailPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.service.GetDevice(r.Context(), id)
	if err != nil && !errors.Is(err, device.ErrNotFound) {
		s.logger.Error("failed to get device", "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	// rec stays nil for unknown IDs.
	s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
		return s.renderer.DeviceDetail(out, web.NewDetailData(rec))
	})
}

// handleDeleteDevicePage removes a router and renders the remaining
// list. Removing an already absent router still reads as success.
func (s *Server) handleDeleteDevicePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.service.DeleteDevice(r.Context(), id); err != nil {
		s.logger.Error("failed to delete device", "error", err)
		s.renderDeviceList(w, r, "", err.Error())
		return
	}

	s.renderDeviceList(w, r, "Device removed.", "")
}

// handleRefreshDevicePage re-polls a router and renders its detail
// fragment. A failed poll renders the last stored snapshot with the
// failure as a banner.
func (s *Server) handleRefreshDevicePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.service.RefreshDevice(r.Context(), id, "", "")
	if err == nil {
		s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
			return s.renderer.DeviceDetail(out, web.NewDetailData(rec))
		})
		return
	}
	if errors.Is(err, device.ErrNotFound) {
		s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
			return s.renderer.DeviceDetail(out, web.NewDetailData(nil))
		})
		return
	}

	current, getErr := s.service.GetDevice(r.Context(), id)
	if getErr != nil {
		s.logger.Error("failed to get device after refresh failure", "error", getErr)
		current = nil
	}
	data := web.NewDetailData(current)
	data.Error = err.Error()
	s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
		return s.renderer.DeviceDetail(out, data)
	})
}

// renderDeviceList renders the list fragment with optional banners.
// Error wins over Message when both are set.
func (s *Server) renderDeviceList(w http.ResponseWriter, r *http.Request, message, banner string) {
	data := web.ListData{Message: message, Error: banner}

	records, err := s.service.ListDevices(r.Context())
	if err != nil {
		s.logger.Error("failed to list devices", "error", err)
		if data.Error == "" {
			data.Error = "Could not load registered devices."
		}
	} else {
		data.Devices = records
	}

	s.renderHTML(w, http.StatusOK, func(out io.Writer) error {
		return s.renderer.DeviceList(out, data)
	})
}
