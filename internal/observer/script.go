package observer

// extractionScript runs once per frame inside the page context. It walks
// the DOM (descending into open shadow roots exactly as into a normal child
// list, per §4.5.1) and returns an array of rawElement-shaped objects for
// every interactable node, after redacting sensitive values in-page so a
// sensitive value never leaves the page context (spec §4.5 step 4).
const extractionScript = `() => {
	const interactiveTags = new Set(['button', 'a', 'input', 'select', 'textarea', 'details', 'summary']);
	const interactiveRoles = new Set([
		'button', 'checkbox', 'combobox', 'link', 'menuitem', 'option', 'radio',
		'slider', 'spinbutton', 'switch', 'tab', 'textbox', 'treeitem', 'gridcell', 'heading',
	]);
	const sensitiveInputTypes = new Set(['password', 'email', 'tel', 'credit-card']);
	const sensitiveAutocompleteHints = ['password', 'email', 'cc-'];

	function isVisible(el) {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	}

	function isInteractable(el) {
		if (!isVisible(el)) return false;
		const tag = el.tagName.toLowerCase();
		if (interactiveTags.has(tag)) return true;
		const role = (el.getAttribute('role') || '').toLowerCase();
		if (interactiveRoles.has(role)) return true;
		if (el.isContentEditable) return true;
		const style = window.getComputedStyle(el);
		if (style.cursor === 'pointer') return true;
		if ((style.overflowY === 'scroll' || style.overflowY === 'auto') && el.scrollHeight > el.clientHeight) return true;
		return false;
	}

	function impliedRole(el) {
		const tag = el.tagName.toLowerCase();
		if (tag === 'button') return 'button';
		if (tag === 'a' && el.hasAttribute('href')) return 'link';
		if (tag === 'input') {
			const t = (el.getAttribute('type') || 'text').toLowerCase();
			if (t === 'checkbox') return 'checkbox';
			if (t === 'radio') return 'radio';
			return 'textbox';
		}
		if (tag === 'select') return 'combobox';
		return '';
	}

	function isSensitive(el) {
		const type = (el.getAttribute('type') || '').toLowerCase();
		if (sensitiveInputTypes.has(type)) return true;
		const autocomplete = (el.getAttribute('autocomplete') || '').toLowerCase();
		return sensitiveAutocompleteHints.some(h => autocomplete.includes(h));
	}

	function collapse(text, max) {
		const normalized = (text || '').replace(/\s+/g, ' ').trim();
		return normalized.length > max ? normalized.slice(0, max) : normalized;
	}

	function buildXPath(el) {
		if (el.id) return '//*[@id="' + el.id + '"]';
		const parts = [];
		let node = el;
		while (node && node.nodeType === 1 && node !== document.body) {
			let index = 1;
			let sibling = node.previousElementSibling;
			while (sibling) {
				if (sibling.tagName === node.tagName) index++;
				sibling = sibling.previousElementSibling;
			}
			parts.unshift(node.tagName.toLowerCase() + '[' + index + ']');
			node = node.parentElement;
		}
		return '//' + parts.join('/');
	}

	function isScrollRoot(root) {
		return typeof root.querySelectorAll === 'function';
	}

	const results = [];

	function walk(root) {
		if (!isScrollRoot(root)) return;
		const all = root.querySelectorAll('*');
		for (const el of all) {
			if (el.shadowRoot) {
				walk(el.shadowRoot);
			}
			if (!isInteractable(el)) continue;

			const sensitive = isSensitive(el);
			let text = collapse(el.textContent, 50);
			if (sensitive) {
				text = '[REDACTED]';
			}

			const rect = el.getBoundingClientRect();
			const inViewport = rect.top >= 0 && rect.left >= 0 &&
				rect.bottom <= window.innerHeight && rect.right <= window.innerWidth;

			const style = window.getComputedStyle(el);
			const isScrollable = (style.overflowY === 'scroll' || style.overflowY === 'auto') &&
				el.scrollHeight > el.clientHeight;

			results.push({
				tag: el.tagName.toLowerCase(),
				role: el.getAttribute('role') || impliedRole(el),
				testId: el.getAttribute('data-testid') || '',
				inputType: (el.getAttribute('type') || ''),
				placeholder: sensitive ? '' : (el.getAttribute('placeholder') || ''),
				name: el.getAttribute('name') || '',
				text: text,
				ariaLabel: el.getAttribute('aria-label') || '',
				title: el.getAttribute('title') || '',
				alt: el.getAttribute('alt') || '',
				xpath: buildXPath(el),
				isScrollable: isScrollable,
				isInViewport: inViewport,
				sensitive: sensitive,
			});
		}
	}

	walk(document);
	return results;
}`
